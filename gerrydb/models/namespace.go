package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// Namespace is used by pop to map your namespaces database table to your go
// code.
type Namespace struct {
	ID          int64     `json:"id" db:"id"`
	Path        string    `json:"path" db:"path"`
	Description string    `json:"description" db:"description"`
	Public      bool      `json:"public" db:"public"`
	Etag        int64     `json:"etag" db:"etag"`
	MetaID      int64     `json:"meta_id" db:"meta_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (n *Namespace) String() string {
	jn, _ := json.MarshalIndent(n, " ", " ")
	return string(jn)
}

// Namespaces is not required by pop and may be deleted
type Namespaces []Namespace

// String is not required by pop and may be deleted
func (n Namespaces) String() string {
	jn, _ := json.MarshalIndent(n, " ", " ")
	return string(jn)
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (n *Namespace) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: n.Path, Name: "Path"},
	), nil
}

// ValidateCreate gets run every time you call "pop.ValidateAndCreate" method.
// This method is not required and may be deleted.
func (n *Namespace) ValidateCreate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.NewErrors(), nil
}

// ValidateUpdate gets run every time you call "pop.ValidateAndUpdate" method.
// This method is not required and may be deleted.
func (n *Namespace) ValidateUpdate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.NewErrors(), nil
}
