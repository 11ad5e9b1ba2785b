package models

import (
	"fmt"

	jsonx "github.com/ajitpratap0/recordsync/pkg/json"
)

// ProviderOptions is the closed union of provider-specific option
// shapes. Exactly one implementation exists per provider; callers switch
// on the concrete type instead of re-checking the provider string.
type ProviderOptions interface {
	// Provider returns the discriminant this options shape belongs to
	Provider() Provider
	// Validate checks required identifiers are present
	Validate() error
}

// AirtableField is a provider-native field descriptor returned by the
// tabular service when a table is created or extended.
type AirtableField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// AirtableOptions holds the tabular provider's table binding.
type AirtableOptions struct {
	BaseID      string          `json:"baseId"`
	TableID     string          `json:"tableId"`
	TableName   string          `json:"tableName,omitempty"`
	Fields      []AirtableField `json:"fields,omitempty"`
	ExternalURL string          `json:"externalUrl,omitempty"`
}

// Provider implements ProviderOptions
func (o *AirtableOptions) Provider() Provider { return ProviderAirtable }

// Validate implements ProviderOptions
func (o *AirtableOptions) Validate() error {
	if o.BaseID == "" {
		return fmt.Errorf("airtable options: baseId is required")
	}
	return nil
}

// FieldByName returns the provider field definition matching a submitted
// form field name, or nil when the table has no such field. Lookup is by
// name, never positional.
func (o *AirtableOptions) FieldByName(name string) *AirtableField {
	for i := range o.Fields {
		if o.Fields[i].Name == name {
			return &o.Fields[i]
		}
	}
	return nil
}

// GoogleSheetsOptions holds the spreadsheet provider's file binding.
type GoogleSheetsOptions struct {
	SpreadsheetID   string `json:"spreadsheetId"`
	SpreadsheetURL  string `json:"spreadsheetUrl,omitempty"`
	SpreadsheetName string `json:"spreadsheetName,omitempty"`
	ExternalURL     string `json:"externalUrl,omitempty"`
}

// Provider implements ProviderOptions
func (o *GoogleSheetsOptions) Provider() Provider { return ProviderGoogleSheets }

// Validate implements ProviderOptions
func (o *GoogleSheetsOptions) Validate() error {
	if o.SpreadsheetID == "" {
		return fmt.Errorf("google sheets options: spreadsheetId is required")
	}
	return nil
}

// NotionOptions holds the document-database provider's binding. Schema
// mapping for this provider is not implemented; the shape exists so
// stored datarecords round-trip.
type NotionOptions struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Provider implements ProviderOptions
func (o *NotionOptions) Provider() Provider { return ProviderNotion }

// Validate implements ProviderOptions
func (o *NotionOptions) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("notion options: id is required")
	}
	return nil
}

// InternalOptions is the empty options shape for CMS-local storage.
type InternalOptions struct{}

// Provider implements ProviderOptions
func (o *InternalOptions) Provider() Provider { return ProviderInternal }

// Validate implements ProviderOptions
func (o *InternalOptions) Validate() error { return nil }

// UnmarshalOptions decodes the options shape selected by provider.
func UnmarshalOptions(provider Provider, data []byte) (ProviderOptions, error) {
	var opts ProviderOptions
	switch provider {
	case ProviderAirtable:
		opts = &AirtableOptions{}
	case ProviderGoogleSheets:
		opts = &GoogleSheetsOptions{}
	case ProviderNotion:
		opts = &NotionOptions{}
	case ProviderInternal:
		opts = &InternalOptions{}
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	if err := jsonx.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("decoding %s options: %w", provider, err)
	}
	return opts, nil
}
