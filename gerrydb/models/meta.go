package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
	"github.com/gofrs/uuid"
)

// ObjectMeta is the attribution record attached to every created object:
// who created it and why. Rows are never mutated after creation.
type ObjectMeta struct {
	ID        int64        `json:"id" db:"id"`
	UUID      uuid.UUID    `json:"uuid" db:"uuid"`
	Notes     nulls.String `json:"notes" db:"notes"`
	CreatedBy string       `json:"created_by" db:"created_by"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// TableName overrides pop's pluralization; the table is object_meta.
func (o ObjectMeta) TableName() string {
	return "object_meta"
}

// String is not required by pop and may be deleted
func (o *ObjectMeta) String() string {
	jo, _ := json.MarshalIndent(o, " ", " ")
	return string(jo)
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (o *ObjectMeta) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: o.CreatedBy, Name: "CreatedBy"},
	), nil
}

// GeoImport records one bulk geography load, so the individual geographies
// created by it share attribution.
type GeoImport struct {
	ID          int64     `json:"id" db:"id"`
	UUID        uuid.UUID `json:"uuid" db:"uuid"`
	NamespaceID int64     `json:"namespace_id" db:"namespace_id"`
	MetaID      int64     `json:"meta_id" db:"meta_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (g *GeoImport) String() string {
	jg, _ := json.MarshalIndent(g, " ", " ")
	return string(jg)
}
