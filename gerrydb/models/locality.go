package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// Locality is used by pop to map your localities database table to your go
// code. Localities are global (not namespaced).
type Locality struct {
	ID            int64       `json:"id" db:"id"`
	CanonicalPath string      `json:"canonical_path" db:"canonical_path"`
	ParentID      nulls.Int64 `json:"parent_id" db:"parent_id"`
	Name          string      `json:"name" db:"name"`
	MetaID        int64       `json:"meta_id" db:"meta_id"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (l *Locality) String() string {
	jl, _ := json.MarshalIndent(l, " ", " ")
	return string(jl)
}

// Localities is not required by pop and may be deleted
type Localities []Locality

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (l *Locality) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: l.CanonicalPath, Name: "CanonicalPath"},
		&validators.StringIsPresent{Field: l.Name, Name: "Name"},
	), nil
}

// LocalityRef is an alternate lookup path (canonical or alias) for a
// locality.
type LocalityRef struct {
	ID         int64     `json:"id" db:"id"`
	Path       string    `json:"path" db:"path"`
	LocalityID int64     `json:"locality_id" db:"locality_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
