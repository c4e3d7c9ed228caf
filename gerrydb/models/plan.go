package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// Plan is used by pop to map your plans database table to your go code.
// NumDistricts and Complete are derived from the assignments at creation
// time and stored; the open row (ValidTo null) is the current version at
// (namespace, path).
type Plan struct {
	ID           int64        `json:"id" db:"id"`
	NamespaceID  int64        `json:"namespace_id" db:"namespace_id"`
	Path         string       `json:"path" db:"path"`
	Description  string       `json:"description" db:"description"`
	SourceURL    nulls.String `json:"source_url" db:"source_url"`
	DistrictrID  nulls.String `json:"districtr_id" db:"districtr_id"`
	DavesID      nulls.String `json:"daves_id" db:"daves_id"`
	LocalityID   int64        `json:"locality_id" db:"locality_id"`
	LayerID      int64        `json:"layer_id" db:"layer_id"`
	SetVersionID int64        `json:"set_version_id" db:"set_version_id"`
	NumDistricts int          `json:"num_districts" db:"num_districts"`
	Complete     bool         `json:"complete" db:"complete"`
	MetaID       int64        `json:"meta_id" db:"meta_id"`
	ValidFrom    time.Time    `json:"valid_from" db:"valid_from"`
	ValidTo      nulls.Time   `json:"valid_to" db:"valid_to"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (p *Plan) String() string {
	jp, _ := json.MarshalIndent(p, " ", " ")
	return string(jp)
}

// Plans is not required by pop and may be deleted
type Plans []Plan

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (p *Plan) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: p.Path, Name: "Path"},
	), nil
}

// PlanAssignment maps one geography to one district label within a plan.
// A null assignment means the geography was listed but left unassigned.
type PlanAssignment struct {
	ID         int64        `json:"id" db:"id"`
	PlanID     int64        `json:"plan_id" db:"plan_id"`
	GeoID      int64        `json:"geo_id" db:"geo_id"`
	Assignment nulls.String `json:"assignment" db:"assignment"`
}

// PlanAssignments is not required by pop and may be deleted
type PlanAssignments []PlanAssignment
