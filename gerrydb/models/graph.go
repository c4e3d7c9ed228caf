package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// Graph is used by pop to map your graphs database table to your go code.
// SetVersionID pins the membership snapshot the graph was validated against.
type Graph struct {
	ID           int64      `json:"id" db:"id"`
	NamespaceID  int64      `json:"namespace_id" db:"namespace_id"`
	Path         string     `json:"path" db:"path"`
	Description  string     `json:"description" db:"description"`
	LocalityID   int64      `json:"locality_id" db:"locality_id"`
	LayerID      int64      `json:"layer_id" db:"layer_id"`
	SetVersionID int64      `json:"set_version_id" db:"set_version_id"`
	MetaID       int64      `json:"meta_id" db:"meta_id"`
	ValidFrom    time.Time  `json:"valid_from" db:"valid_from"`
	ValidTo      nulls.Time `json:"valid_to" db:"valid_to"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (g *Graph) String() string {
	jg, _ := json.MarshalIndent(g, " ", " ")
	return string(jg)
}

// Graphs is not required by pop and may be deleted
type Graphs []Graph

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (g *Graph) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: g.Path, Name: "Path"},
	), nil
}

// GraphEdge is one undirected adjacency between two geographies. Weights is
// an opaque JSON payload.
type GraphEdge struct {
	ID      int64        `json:"id" db:"id"`
	GraphID int64        `json:"graph_id" db:"graph_id"`
	GeoID1  int64        `json:"geo_id_1" db:"geo_id_1"`
	GeoID2  int64        `json:"geo_id_2" db:"geo_id_2"`
	Weights nulls.String `json:"weights" db:"weights"`
}

// GraphEdges is not required by pop and may be deleted
type GraphEdges []GraphEdge
