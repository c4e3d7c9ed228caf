package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// Column is used by pop to map your columns database table to your go code.
// The row is the stable identity; mutable attributes live on ColumnVersion
// rows and lookup paths on ColumnRef rows.
type Column struct {
	ID            int64     `json:"id" db:"id"`
	NamespaceID   int64     `json:"namespace_id" db:"namespace_id"`
	CanonicalPath string    `json:"canonical_path" db:"canonical_path"`
	Kind          string    `json:"kind" db:"kind"`
	Type          string    `json:"type" db:"type"`
	MetaID        int64     `json:"meta_id" db:"meta_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (c *Column) String() string {
	jc, _ := json.MarshalIndent(c, " ", " ")
	return string(jc)
}

// Columns is not required by pop and may be deleted
type Columns []Column

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (c *Column) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: c.CanonicalPath, Name: "CanonicalPath"},
		&validators.StringIsPresent{Field: c.Kind, Name: "Kind"},
		&validators.StringIsPresent{Field: c.Type, Name: "Type"},
	), nil
}

// ColumnRef is a lookup path for a column: its canonical path plus any
// aliases.
type ColumnRef struct {
	ID          int64     `json:"id" db:"id"`
	NamespaceID int64     `json:"namespace_id" db:"namespace_id"`
	Path        string    `json:"path" db:"path"`
	ColumnID    int64     `json:"column_id" db:"column_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ColumnRefs is not required by pop and may be deleted
type ColumnRefs []ColumnRef

// ColumnVersion is one interval-stamped row of a column's attribute history.
// The open row (ValidTo null) is current.
type ColumnVersion struct {
	ID          int64        `json:"id" db:"id"`
	ColumnID    int64        `json:"column_id" db:"column_id"`
	Description string       `json:"description" db:"description"`
	SourceURL   nulls.String `json:"source_url" db:"source_url"`
	MetaID      int64        `json:"meta_id" db:"meta_id"`
	ValidFrom   time.Time    `json:"valid_from" db:"valid_from"`
	ValidTo     nulls.Time   `json:"valid_to" db:"valid_to"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (c *ColumnVersion) String() string {
	jc, _ := json.MarshalIndent(c, " ", " ")
	return string(jc)
}
