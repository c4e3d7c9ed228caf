// Package gerrydb contains the core types shared between the storage layer
// and its callers: typed identifiers, enumerations, path normalization, the
// namespace etag token, and the coded errors surfaced by create operations.
package gerrydb

import "fmt"

// Typed identifiers for the entities managed by the store. All are stable
// internal keys assigned once at creation time; paths are the user-facing
// lookup mechanism.
type (
	NamespaceID       int64
	MetaID            int64
	ColumnID          int64
	ColumnVersionID   int64
	ColumnSetID       int64
	LayerID           int64
	LocalityID        int64
	GeographyID       int64
	GeoImportID       int64
	GeoSetVersionID   int64
	PlanID            int64
	GraphID           int64
	TemplateID        int64
	TemplateVersionID int64
)

// ObjectKind names a path-addressable object kind. Canonical paths are unique
// per (namespace, kind) among current versions.
type ObjectKind string

const (
	KindColumn       ObjectKind = "column"
	KindColumnSet    ObjectKind = "column_set"
	KindLayer        ObjectKind = "layer"
	KindLocality     ObjectKind = "locality"
	KindGeography    ObjectKind = "geography"
	KindPlan         ObjectKind = "plan"
	KindGraph        ObjectKind = "graph"
	KindViewTemplate ObjectKind = "view_template"
)

// ColumnType is the data type of a column.
type ColumnType string

const (
	ColumnTypeFloat ColumnType = "float"
	ColumnTypeInt   ColumnType = "int"
	ColumnTypeBool  ColumnType = "bool"
	ColumnTypeStr   ColumnType = "str"
	ColumnTypeJSON  ColumnType = "json"
)

// ColumnKind is the meaning of a column.
type ColumnKind string

const (
	ColumnKindCount       ColumnKind = "count"
	ColumnKindPercent     ColumnKind = "percent"
	ColumnKindCategorical ColumnKind = "categorical"
	ColumnKindIdentifier  ColumnKind = "identifier"
	ColumnKindArea        ColumnKind = "area"
	ColumnKindOther       ColumnKind = "other"
)

// NamespaceGroup distinguishes public namespaces (visible to anyone with
// access to the instance) from private ones (visible only to users with
// explicit permissions).
type NamespaceGroup string

const (
	NamespaceGroupPublic  NamespaceGroup = "public"
	NamespaceGroupPrivate NamespaceGroup = "private"
	NamespaceGroupAll     NamespaceGroup = "all"
)

// Etag is the per-namespace change token. Every committed mutation in a
// namespace strictly advances it, so a consumer holding an older Etag knows
// its cached view is stale. The numeric value is an implementation detail;
// callers should treat the token as opaque and only compare for ordering.
type Etag int64

// String renders the token opaquely.
func (e Etag) String() string {
	return fmt.Sprintf("%016x", int64(e))
}

// After reports whether e was issued after other in the namespace's total
// order of committed mutations.
func (e Etag) After(other Etag) bool {
	return e > other
}
