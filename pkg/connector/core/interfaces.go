// Package core defines the interfaces and provider-native types shared
// by all external sync connectors.
package core

import (
	"context"

	"github.com/ajitpratap0/recordsync/pkg/models"
)

// FieldType is a provider-native column/field type.
type FieldType string

const (
	FieldTypeSingleLineText FieldType = "singleLineText"
	FieldTypeMultilineText  FieldType = "multilineText"
	FieldTypeEmail          FieldType = "email"
	FieldTypeURL            FieldType = "url"
	FieldTypeDate           FieldType = "date"
	FieldTypeDateTime       FieldType = "dateTime"
	FieldTypeNumber         FieldType = "number"
	FieldTypeCheckbox       FieldType = "checkbox"
	FieldTypeSingleSelect   FieldType = "singleSelect"
	FieldTypeMultipleSelect FieldType = "multipleSelects"
)

// FieldDefinition is a provider-native field description produced by the
// schema translator and consumed by table lifecycle operations. It is
// transient: never persisted, rebuilt from the schema on demand.
type FieldDefinition struct {
	Name string
	Type FieldType
	// Choices holds the option names for select fields
	Choices []string
	// Precision is the number of decimal digits for number fields
	Precision int
}

// RecordResult identifies a row created at the provider.
type RecordResult struct {
	ID string
}

// TableManager provisions and evolves the remote table or sheet backing
// a datarecord. Create is called once when a datarecord is first bound
// to the provider; Update whenever schema fields are added later. The
// tabular provider only supports additive field creation, never removal
// or type change.
type TableManager interface {
	// CreateTable provisions a remote table from record.Schema under the
	// binding identifiers in record.Options (e.g. the workspace/base id)
	// and returns completed options: assigned table id plus the field
	// list the provider created.
	CreateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error)

	// UpdateTable adds any record.Schema fields missing from the remote
	// table bound by record.Options, one provider call per field, then
	// renames/redescribes the table from record.Label and
	// record.Description. The two phases are not atomic: a failure after
	// some field adds leaves those fields in place, and the returned
	// error names the field that failed. A nil record.Schema updates
	// metadata only.
	UpdateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error)
}

// RecordWriter writes one submitted form to the provider. A nil result
// with nil error is a soft failure: the provider accepted the call but
// returned no created record; the caller decides severity.
type RecordWriter interface {
	SaveRecord(ctx context.Context, record *models.Datarecord, form *models.SubmittedForm) (*RecordResult, error)
}

// SyncConnector is the full per-provider surface the CMS consumes.
type SyncConnector interface {
	TableManager
	RecordWriter

	// Name returns the provider discriminant this connector serves
	Name() models.Provider
}
