// Package models defines the record types exchanged between the CMS and
// the external sync layer.
//
// A Datarecord describes one record type (for example "Newsletter
// Signup"): its JSON-schema-like shape plus the provider it syncs to.
// The sync layer treats the schema as read-only input owned by the CMS.
package models

import (
	"fmt"

	jsonx "github.com/ajitpratap0/recordsync/pkg/json"
)

// Provider identifies an external synchronization target.
type Provider string

const (
	// ProviderAirtable is the tabular database service
	ProviderAirtable Provider = "airtable"
	// ProviderGoogleSheets is the spreadsheet service
	ProviderGoogleSheets Provider = "google-sheets"
	// ProviderNotion is the document database service
	ProviderNotion Provider = "notion"
	// ProviderInternal is CMS-local storage, never routed through this layer
	ProviderInternal Provider = "internal"
)

// IsExternal reports whether records of this provider are synced through
// the connector layer.
func (p Provider) IsExternal() bool {
	switch p {
	case ProviderAirtable, ProviderGoogleSheets, ProviderNotion:
		return true
	default:
		return false
	}
}

// Datarecord is a named, schema-described record type bound to one
// storage provider.
type Datarecord struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Provider    Provider        `json:"provider"`
	Options     ProviderOptions `json:"options"`
	Schema      *RecordSchema   `json:"schema"`
}

// datarecordEnvelope mirrors Datarecord with raw options for two-phase
// decoding: the provider discriminant selects the concrete options type.
type datarecordEnvelope struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Description string        `json:"description,omitempty"`
	Provider    Provider      `json:"provider"`
	Options     rawJSON       `json:"options"`
	Schema      *RecordSchema `json:"schema"`
}

type rawJSON []byte

func (r *rawJSON) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func (r rawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON decodes a Datarecord, selecting the options shape by the
// provider discriminant. Exactly one options shape is valid per provider.
func (d *Datarecord) UnmarshalJSON(data []byte) error {
	var env datarecordEnvelope
	if err := jsonx.Unmarshal(data, &env); err != nil {
		return err
	}

	d.ID = env.ID
	d.Label = env.Label
	d.Description = env.Description
	d.Provider = env.Provider
	d.Schema = env.Schema

	if len(env.Options) == 0 || string(env.Options) == "null" {
		d.Options = nil
		return nil
	}

	opts, err := UnmarshalOptions(env.Provider, env.Options)
	if err != nil {
		return err
	}
	d.Options = opts
	return nil
}

// Validate checks the provider/options pairing.
func (d *Datarecord) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("datarecord id is required")
	}
	if d.Options != nil && d.Options.Provider() != d.Provider {
		return fmt.Errorf("options shape %q does not match provider %q",
			d.Options.Provider(), d.Provider)
	}
	if d.Options != nil {
		return d.Options.Validate()
	}
	return nil
}

// RecordSchema is a JSON-Schema-like description of one record's shape:
// a flat properties map of primitive-typed fields. Property declaration
// order is preserved; the translator's ordering rules depend on it.
type RecordSchema struct {
	Type       string      `json:"type"`
	Properties PropertyMap `json:"properties"`
}

// SchemaProperty describes one field of a record schema. Only primitive
// types are supported: string, number, boolean. String fields may carry
// a sub-format (email, uri, date, date-time) and an optional enum.
type SchemaProperty struct {
	Type     string            `json:"type"`
	Format   string            `json:"format,omitempty"`
	Enum     []string          `json:"enum,omitempty"`
	Metadata *PropertyMetadata `json:"metadata,omitempty"`
}

// PropertyMetadata carries CMS UI hints the sync layer honors: explicit
// field ordering, the multiline-text flag, and whether an enum field
// accepts multiple choices.
type PropertyMetadata struct {
	Order     *int `json:"order,omitempty"`
	Multiline bool `json:"multiline,omitempty"`
	Multiple  bool `json:"multiple,omitempty"`
}
