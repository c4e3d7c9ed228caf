package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// GeoLayer is used by pop to map your geo_layers database table to your go
// code.
type GeoLayer struct {
	ID          int64        `json:"id" db:"id"`
	NamespaceID int64        `json:"namespace_id" db:"namespace_id"`
	Path        string       `json:"path" db:"path"`
	Description string       `json:"description" db:"description"`
	SourceURL   nulls.String `json:"source_url" db:"source_url"`
	MetaID      int64        `json:"meta_id" db:"meta_id"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (g *GeoLayer) String() string {
	jg, _ := json.MarshalIndent(g, " ", " ")
	return string(jg)
}

// GeoLayers is not required by pop and may be deleted
type GeoLayers []GeoLayer

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (g *GeoLayer) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: g.Path, Name: "Path"},
	), nil
}
