package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// ColumnSet is used by pop to map your column_sets database table to your go
// code.
type ColumnSet struct {
	ID          int64     `json:"id" db:"id"`
	NamespaceID int64     `json:"namespace_id" db:"namespace_id"`
	Path        string    `json:"path" db:"path"`
	Description string    `json:"description" db:"description"`
	MetaID      int64     `json:"meta_id" db:"meta_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (c *ColumnSet) String() string {
	jc, _ := json.MarshalIndent(c, " ", " ")
	return string(jc)
}

// ColumnSets is not required by pop and may be deleted
type ColumnSets []ColumnSet

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (c *ColumnSet) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: c.Path, Name: "Path"},
	), nil
}

// ColumnSetMember links one column into one column set, preserving member
// order.
type ColumnSetMember struct {
	ID          int64 `json:"id" db:"id"`
	SetID       int64 `json:"set_id" db:"set_id"`
	ColumnID    int64 `json:"column_id" db:"column_id"`
	MemberOrder int   `json:"member_order" db:"member_order"`
}

// ColumnSetMembers is not required by pop and may be deleted
type ColumnSetMembers []ColumnSetMember
