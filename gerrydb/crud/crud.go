// Package crud defines the storage interfaces implemented by the sqldb
// package, along with the request types creation operations accept. Every
// method takes a caller-provided gerrydb.Transaction; nothing commits here.
package crud

import (
	"context"

	"github.com/gofrs/uuid"

	"github.com/peterrrock2/gerrydb-meta/gerrydb"
	"github.com/peterrrock2/gerrydb-meta/gerrydb/models"
)

// Transactor provides transactions to the stores, agnostic of
// implementation.
type Transactor interface {
	// Start is useful for Transactor implementations which need to establish
	// a connection. We don't want to do that in the Connect() function; we
	// want that to happen upon Start().
	Start() error

	BeginTx(ctx context.Context, writable bool) (gerrydb.Transaction, error)
	Close() error
}

// NamespaceCreate is the request to create a namespace.
type NamespaceCreate struct {
	Path        string
	Description string
	Public      bool
}

// MetaCreate is the request to create an attribution record.
type MetaCreate struct {
	Notes     string
	CreatedBy string
}

// LocalityCreate is the request to create a locality. ParentPath and Aliases
// may be empty.
type LocalityCreate struct {
	CanonicalPath string
	Name          string
	ParentPath    string
	Aliases       []string
}

// LayerCreate is the request to create a geographic layer in a namespace.
type LayerCreate struct {
	Path        string
	Description string
	SourceURL   string
}

// ColumnCreate is the request to create a column in a namespace.
type ColumnCreate struct {
	Path        string
	Description string
	SourceURL   string
	Kind        gerrydb.ColumnKind
	Type        gerrydb.ColumnType
	Aliases     []string
}

// ColumnPatch carries the updatable column attributes. An update seals the
// current version row and inserts a new one.
type ColumnPatch struct {
	Description string
	SourceURL   string
}

// ColumnSetCreate is the request to create a column set; Columns holds the
// member column paths in order.
type ColumnSetCreate struct {
	Path        string
	Description string
	Columns     []string
}

// PlanCreate is the request to create a districting plan. Assignments maps
// geography paths to district labels; geographies omitted from the map are
// left unassigned.
type PlanCreate struct {
	Path        string
	Description string
	SourceURL   string
	DistrictrID string
	DavesID     string
	Locality    string
	Layer       string
	Assignments map[string]string
}

// GraphEdgeCreate declares one undirected edge by its endpoint geography
// paths. Weights is an optional JSON object serialized as text.
type GraphEdgeCreate struct {
	PathA   string
	PathB   string
	Weights string
}

// GraphCreate is the request to create a dual graph. Geographies lists the
// node geography paths; every edge endpoint must appear in it.
type GraphCreate struct {
	Path        string
	Description string
	Locality    string
	Layer       string
	Geographies []string
	Edges       []GraphEdgeCreate
}

// ViewTemplateCreate is the request to create a view template; Members holds
// column and column-set paths in order.
type ViewTemplateCreate struct {
	Path        string
	Description string
	Members     []string
}

// ResolvedMember is a view-template member path mapped to the entity it
// denotes. Exactly one of Column and ColumnSet is set.
type ResolvedMember struct {
	Path      string
	Column    *models.Column
	ColumnSet *models.ColumnSet
}

type NamespaceStore interface {
	CreateNamespace(tx gerrydb.Transaction, nc NamespaceCreate, meta *models.ObjectMeta) (*models.Namespace, gerrydb.Etag, error)
	NamespaceByPath(tx gerrydb.Transaction, path string) (*models.Namespace, error)
	NamespaceEtag(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (gerrydb.Etag, error)
}

type MetaStore interface {
	CreateMeta(tx gerrydb.Transaction, mc MetaCreate) (*models.ObjectMeta, error)
	MetaByUUID(tx gerrydb.Transaction, id uuid.UUID) (*models.ObjectMeta, error)
}

type LocalityStore interface {
	CreateLocality(tx gerrydb.Transaction, lc LocalityCreate, meta *models.ObjectMeta) (*models.Locality, error)
	LocalityByPath(tx gerrydb.Transaction, path string) (*models.Locality, error)
}

type LayerStore interface {
	CreateLayer(tx gerrydb.Transaction, ns *models.Namespace, lc LayerCreate, meta *models.ObjectMeta) (*models.GeoLayer, gerrydb.Etag, error)
	LayerByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.GeoLayer, error)
	ListLayers(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.GeoLayers, error)

	// MapLocality seals the current membership snapshot for (locality,
	// layer), if any, and writes a new one holding exactly geos.
	MapLocality(tx gerrydb.Transaction, layer *models.GeoLayer, locality *models.Locality, geos models.Geographies, meta *models.ObjectMeta) (*models.GeoSetVersion, gerrydb.Etag, error)

	// SetByLocalityLayer returns the current (open) membership snapshot.
	SetByLocalityLayer(tx gerrydb.Transaction, locality *models.Locality, layer *models.GeoLayer) (*models.GeoSetVersion, error)
}

type GeographyStore interface {
	CreateGeoImport(tx gerrydb.Transaction, ns *models.Namespace, meta *models.ObjectMeta) (*models.GeoImport, error)
	CreateGeographies(tx gerrydb.Transaction, ns *models.Namespace, paths []string, geoImport *models.GeoImport, meta *models.ObjectMeta) (models.Geographies, gerrydb.Etag, error)
	GeographyByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Geography, error)
}

type ColumnStore interface {
	CreateColumn(tx gerrydb.Transaction, ns *models.Namespace, cc ColumnCreate, meta *models.ObjectMeta) (*models.Column, gerrydb.Etag, error)
	ColumnByRef(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Column, error)
	CurrentColumnVersion(tx gerrydb.Transaction, columnID gerrydb.ColumnID) (*models.ColumnVersion, error)
	UpdateColumn(tx gerrydb.Transaction, ns *models.Namespace, column *models.Column, patch ColumnPatch, meta *models.ObjectMeta) (*models.ColumnVersion, gerrydb.Etag, error)
	ListColumns(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.Columns, error)
}

type ColumnSetStore interface {
	CreateColumnSet(tx gerrydb.Transaction, ns *models.Namespace, csc ColumnSetCreate, meta *models.ObjectMeta) (*models.ColumnSet, gerrydb.Etag, error)
	ColumnSetByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.ColumnSet, error)
	ColumnSetMembers(tx gerrydb.Transaction, setID gerrydb.ColumnSetID) (models.Columns, error)
	ListColumnSets(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.ColumnSets, error)
}

type Resolver interface {
	// ResolveGeographies maps each normalized path to a geography in the
	// namespace. Unresolved paths are collected into a single
	// PathsUnresolvedError.
	ResolveGeographies(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, paths []string) (map[string]*models.Geography, error)

	// ResolveViewTemplateMembers maps each member path to a column or a
	// column set, batch-reporting paths that match neither.
	ResolveViewTemplateMembers(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, paths []string) ([]ResolvedMember, error)
}

type PlanStore interface {
	CreatePlan(tx gerrydb.Transaction, ns *models.Namespace, pc PlanCreate, meta *models.ObjectMeta) (*models.Plan, gerrydb.Etag, error)
	PlanByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Plan, error)
	PlanAssignments(tx gerrydb.Transaction, planID gerrydb.PlanID) (models.PlanAssignments, error)
	ListPlans(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.Plans, error)
}

type GraphStore interface {
	CreateGraph(tx gerrydb.Transaction, ns *models.Namespace, gc GraphCreate, meta *models.ObjectMeta) (*models.Graph, gerrydb.Etag, error)
	GraphByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.Graph, error)
	GraphEdges(tx gerrydb.Transaction, graphID gerrydb.GraphID) (models.GraphEdges, error)
	ListGraphs(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.Graphs, error)
}

type ViewTemplateStore interface {
	CreateViewTemplate(tx gerrydb.Transaction, ns *models.Namespace, vtc ViewTemplateCreate, meta *models.ObjectMeta) (*models.ViewTemplate, gerrydb.Etag, error)
	ViewTemplateByPath(tx gerrydb.Transaction, nsID gerrydb.NamespaceID, path string) (*models.ViewTemplate, error)
	ListViewTemplates(tx gerrydb.Transaction, nsID gerrydb.NamespaceID) (models.ViewTemplates, error)
}
