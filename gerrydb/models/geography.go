package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// Geography is used by pop to map your geographies database table to your go
// code. Geometry itself lives outside this store; only the identity and path
// are kept here.
type Geography struct {
	ID          int64       `json:"id" db:"id"`
	NamespaceID int64       `json:"namespace_id" db:"namespace_id"`
	Path        string      `json:"path" db:"path"`
	GeoImportID nulls.Int64 `json:"geo_import_id" db:"geo_import_id"`
	MetaID      int64       `json:"meta_id" db:"meta_id"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (g *Geography) String() string {
	jg, _ := json.MarshalIndent(g, " ", " ")
	return string(jg)
}

// Geographies is not required by pop and may be deleted
type Geographies []Geography

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (g *Geography) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: g.Path, Name: "Path"},
	), nil
}

// GeoSetVersion is an immutable snapshot of the geographies mapped to a
// (locality, layer) pair. The open version (ValidTo null) is current;
// remapping seals it and inserts a successor.
type GeoSetVersion struct {
	ID         int64      `json:"id" db:"id"`
	LocalityID int64      `json:"locality_id" db:"locality_id"`
	LayerID    int64      `json:"layer_id" db:"layer_id"`
	MetaID     int64      `json:"meta_id" db:"meta_id"`
	ValidFrom  time.Time  `json:"valid_from" db:"valid_from"`
	ValidTo    nulls.Time `json:"valid_to" db:"valid_to"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (g *GeoSetVersion) String() string {
	jg, _ := json.MarshalIndent(g, " ", " ")
	return string(jg)
}

// GeoSetMember links one geography into one set version.
type GeoSetMember struct {
	ID           int64 `json:"id" db:"id"`
	SetVersionID int64 `json:"set_version_id" db:"set_version_id"`
	GeoID        int64 `json:"geo_id" db:"geo_id"`
}

// GeoSetMembers is not required by pop and may be deleted
type GeoSetMembers []GeoSetMember
