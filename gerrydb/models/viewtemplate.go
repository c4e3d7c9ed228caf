package models

import (
	"encoding/json"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gobuffalo/validate/v3/validators"
)

// ViewTemplate is used by pop to map your view_templates database table to
// your go code. Member links hang off ViewTemplateVersion rows so history
// stays queryable after edits.
type ViewTemplate struct {
	ID          int64     `json:"id" db:"id"`
	NamespaceID int64     `json:"namespace_id" db:"namespace_id"`
	Path        string    `json:"path" db:"path"`
	Description string    `json:"description" db:"description"`
	MetaID      int64     `json:"meta_id" db:"meta_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// String is not required by pop and may be deleted
func (v *ViewTemplate) String() string {
	jv, _ := json.MarshalIndent(v, " ", " ")
	return string(jv)
}

// ViewTemplates is not required by pop and may be deleted
type ViewTemplates []ViewTemplate

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
// This method is not required and may be deleted.
func (v *ViewTemplate) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validate.Validate(
		&validators.StringIsPresent{Field: v.Path, Name: "Path"},
	), nil
}

// ViewTemplateVersion is one interval-stamped row of a template's member
// history.
type ViewTemplateVersion struct {
	ID         int64      `json:"id" db:"id"`
	TemplateID int64      `json:"template_id" db:"template_id"`
	MetaID     int64      `json:"meta_id" db:"meta_id"`
	ValidFrom  time.Time  `json:"valid_from" db:"valid_from"`
	ValidTo    nulls.Time `json:"valid_to" db:"valid_to"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// ViewTemplateColumnMember links a directly listed column into a template
// version.
type ViewTemplateColumnMember struct {
	ID          int64 `json:"id" db:"id"`
	VersionID   int64 `json:"version_id" db:"version_id"`
	ColumnID    int64 `json:"column_id" db:"column_id"`
	MemberOrder int   `json:"member_order" db:"member_order"`
}

// ViewTemplateColumnSetMember links a column set into a template version.
type ViewTemplateColumnSetMember struct {
	ID          int64 `json:"id" db:"id"`
	VersionID   int64 `json:"version_id" db:"version_id"`
	SetID       int64 `json:"set_id" db:"set_id"`
	MemberOrder int   `json:"member_order" db:"member_order"`
}
