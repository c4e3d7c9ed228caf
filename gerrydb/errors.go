package gerrydb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/peterrrock2/gerrydb-meta/errors"
)

const (
	ErrNamespaceExists   errors.Code = "NamespaceExists"
	ErrNamespaceNotFound errors.Code = "NamespaceNotFound"
	ErrLocalityNotFound  errors.Code = "LocalityNotFound"
	ErrLayerNotFound     errors.Code = "LayerNotFound"
	ErrSetNotFound       errors.Code = "SetNotFound"
	ErrPathExists        errors.Code = "PathExists"
	ErrPathsUnresolved   errors.Code = "PathsUnresolved"
	ErrGeosNotInSet      errors.Code = "GeosNotInSet"
	ErrEdgeGeosMissing   errors.Code = "EdgeGeosMissing"
	ErrPlanLimit         errors.Code = "PlanLimit"
	ErrColumnDuplicated  errors.Code = "ColumnDuplicated"
	ErrInvalidMember     errors.Code = "InvalidMember"
	ErrInvalidVersion    errors.Code = "InvalidVersion"

	ErrInvalidTransaction errors.Code = "InvalidTransaction"
)

func NewErrInvalidTransaction(txType string) error {
	return errors.New(ErrInvalidTransaction,
		fmt.Sprintf("transaction type is not valid: %s", txType))
}

func NewErrNamespaceExists(path string) error {
	return errors.New(ErrNamespaceExists,
		fmt.Sprintf("namespace already exists: %s", path))
}

func NewErrNamespaceNotFound(path string) error {
	return errors.New(ErrNamespaceNotFound,
		fmt.Sprintf("namespace not found: %s", path))
}

func NewErrLocalityNotFound(path string) error {
	return errors.New(ErrLocalityNotFound,
		fmt.Sprintf("locality not found: %s", path))
}

func NewErrLayerNotFound(path string) error {
	return errors.New(ErrLayerNotFound,
		fmt.Sprintf("geographic layer not found: %s", path))
}

func NewErrSetNotFound(locality, layer string) error {
	return errors.New(ErrSetNotFound,
		fmt.Sprintf("no set of geographies exists for locality %s and layer %s", locality, layer))
}

func NewErrPathExists(kind ObjectKind, path string) error {
	return errors.New(ErrPathExists,
		fmt.Sprintf("%s path already exists: %s", kind, path))
}

// NewErrPlanPathExists is the path-collision error for districting plans.
func NewErrPlanPathExists() error {
	return errors.New(ErrPathExists,
		"Failed to create canonical path to new districting plan. (The path may already exist.)")
}

// NewErrGraphPathExists is the path-collision error for dual graphs.
func NewErrGraphPathExists() error {
	return errors.New(ErrPathExists,
		"Failed to create new graph. (The path(s) may already exist.)")
}

func NewErrPlanLimit(locality string, max int) error {
	return errors.New(ErrPlanLimit,
		fmt.Sprintf("Failed to create a plan object. The maximum number of plans "+
			"(%d) has already been reached for locality %s.", max, locality))
}

func NewErrInvalidMember(path string) error {
	return errors.New(ErrInvalidMember,
		fmt.Sprintf("View templates may only contain columns and column sets. "+
			"(member path: %s)", path))
}

func NewErrInvalidVersion(message string) error {
	return errors.New(ErrInvalidVersion, message)
}

// PathsUnresolvedError reports every path in a batch reference that could not
// be resolved to an object of the requested kind, rather than just the first.
type PathsUnresolvedError struct {
	Kind  ObjectKind
	Paths []string
}

func NewErrPathsUnresolved(kind ObjectKind, paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return PathsUnresolvedError{Kind: kind, Paths: sorted}
}

func (e PathsUnresolvedError) Error() string {
	return fmt.Sprintf("Failed to resolve %s path(s): %s",
		e.Kind, strings.Join(e.Paths, ", "))
}

func (e PathsUnresolvedError) ErrorCode() errors.Code {
	return ErrPathsUnresolved
}

// GeosNotInSetError reports every geography in a batch that falls outside the
// set of geographies defined by a locality and layer.
type GeosNotInSetError struct {
	Locality string
	Layer    string
	Paths    []string

	// assignment distinguishes the plan-assignment message from the
	// graph-node message.
	assignment bool
}

func NewErrPlanGeosNotInSet(locality, layer string, paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return GeosNotInSetError{
		Locality:   locality,
		Layer:      layer,
		Paths:      sorted,
		assignment: true,
	}
}

func NewErrGraphGeosNotInSet(paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return GeosNotInSetError{Paths: sorted}
}

func (e GeosNotInSetError) Error() string {
	if e.assignment {
		return fmt.Sprintf("Some geographies in the assignment are not in the set "+
			"defined by locality %s and layer %s: %s",
			e.Locality, e.Layer, strings.Join(e.Paths, ", "))
	}
	return fmt.Sprintf("Geographies not associated with locality and layer: %s",
		strings.Join(e.Paths, ", "))
}

func (e GeosNotInSetError) ErrorCode() errors.Code {
	return ErrGeosNotInSet
}

// EdgeGeosMissingError reports edge endpoints that reference geographies
// outside the set of node geographies passed alongside them.
type EdgeGeosMissingError struct {
	Paths []string
}

func NewErrEdgeGeosMissing(paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return EdgeGeosMissingError{Paths: sorted}
}

func (e EdgeGeosMissingError) Error() string {
	return fmt.Sprintf("Passed edge geographies do not match the geographies "+
		"associated with the underlying graph. Missing edge geographies: %s",
		strings.Join(e.Paths, ", "))
}

func (e EdgeGeosMissingError) ErrorCode() errors.Code {
	return ErrEdgeGeosMissing
}

// ColumnDuplicatedError reports a column that a view template would receive
// more than once, either directly or through a column set.
type ColumnDuplicatedError struct {
	Column    string
	ColumnSet string
}

func NewErrColumnDuplicated(column string) error {
	return ColumnDuplicatedError{Column: column}
}

func NewErrColumnDuplicatedInSet(column, columnSet string) error {
	return ColumnDuplicatedError{Column: column, ColumnSet: columnSet}
}

func (e ColumnDuplicatedError) Error() string {
	if e.ColumnSet != "" {
		return fmt.Sprintf("Cannot create view template: column %s is in column "+
			"set '%s' that was previously added or appears in another column set.",
			e.Column, e.ColumnSet)
	}
	return fmt.Sprintf("Cannot create view template: the following column was "+
		"referenced elsewhere: %s.", e.Column)
}

func (e ColumnDuplicatedError) ErrorCode() errors.Code {
	return ErrColumnDuplicated
}
