// Package airtable implements the tabular-provider connector: table
// provisioning, additive schema evolution, and row writes.
package airtable

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ajitpratap0/recordsync/pkg/clients"
	"github.com/ajitpratap0/recordsync/pkg/config"
	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	jsonx "github.com/ajitpratap0/recordsync/pkg/json"
	"github.com/ajitpratap0/recordsync/pkg/logger"
	"github.com/ajitpratap0/recordsync/pkg/metrics"
	"github.com/ajitpratap0/recordsync/pkg/models"
	"github.com/ajitpratap0/recordsync/pkg/schema"
)

// DefaultBaseURL is the tabular provider's API root.
const DefaultBaseURL = "https://api.airtable.com"

const providerName = "airtable"

// Connector is the tabular-provider sync connector.
type Connector struct {
	client *clients.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// Option customizes a Connector.
type Option func(*options)

type options struct {
	baseURL       string
	clientOptions []clients.Option
}

// WithBaseURL overrides the provider API root (tests).
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithClientOptions forwards options to the underlying HTTP client.
func WithClientOptions(opts ...clients.Option) Option {
	return func(o *options) { o.clientOptions = append(o.clientOptions, opts...) }
}

// New creates a connector authenticated with the given access token.
func New(accessToken string, cfg *config.SyncConfig, opts ...Option) (*Connector, error) {
	o := &options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}

	client, err := clients.New(providerName, o.baseURL, accessToken, cfg, o.clientOptions...)
	if err != nil {
		return nil, err
	}

	return &Connector{
		client: client,
		logger: logger.Get().With(zap.String("connector", providerName)),
		tracer: otel.Tracer("recordsync/airtable"),
	}, nil
}

// Name implements core.SyncConnector.
func (c *Connector) Name() models.Provider { return models.ProviderAirtable }

// tablePayload is the table-creation request body.
type tablePayload struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Fields      []fieldPayload `json:"fields"`
}

// fieldPayload is one provider-native field in create/add calls.
type fieldPayload struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Options *fieldOptions `json:"options,omitempty"`
}

type fieldOptions struct {
	Precision *int         `json:"precision,omitempty"`
	Choices   []choiceName `json:"choices,omitempty"`
}

type choiceName struct {
	Name string `json:"name"`
}

// tableResponse is the provider's table create/update response.
type tableResponse struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Fields []models.AirtableField `json:"fields"`
}

// recordsPayload is the row-create request body.
type recordsPayload struct {
	Records []recordEntry `json:"records"`
}

type recordEntry struct {
	Fields map[string]interface{} `json:"fields"`
}

// recordsResponse is the row-create response.
type recordsResponse struct {
	Records []struct {
		ID string `json:"id"`
	} `json:"records"`
}

// CreateTable provisions a table with all schema fields in one call and
// returns options carrying the assigned table id and created fields.
func (c *Connector) CreateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error) {
	opts, err := airtableOptions(record)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "airtable.create_table")
	defer span.End()
	ctx = clients.WithOperation(ctx, "create_table")

	defs, err := schema.Translate(record.Schema)
	if err != nil {
		return nil, err
	}

	payload := tablePayload{
		Name:        record.Label,
		Description: record.Description,
		Fields:      make([]fieldPayload, 0, len(defs)),
	}
	for _, def := range defs {
		payload.Fields = append(payload.Fields, buildFieldPayload(def))
	}

	path := fmt.Sprintf("/v0/meta/bases/%s/tables", opts.BaseID)
	resp, err := c.client.Call(ctx, "POST", path, payload)
	if err != nil {
		span.RecordError(err)
		return nil, wrapWithPayload(err, "failed to create table", payload, record.Schema)
	}

	var table tableResponse
	if err := resp.DecodeJSON(&table); err != nil {
		return nil, err
	}

	c.logger.Info("table created",
		zap.String("table_id", table.ID),
		zap.String("name", table.Name),
		zap.Int("fields", len(table.Fields)))

	return &models.AirtableOptions{
		BaseID:    opts.BaseID,
		TableID:   table.ID,
		TableName: table.Name,
		Fields:    table.Fields,
	}, nil
}

// UpdateTable adds schema fields missing from the remote table, one
// provider call per field, then renames/redescribes the table.
//
// The two phases are deliberately not a transaction: a crash between
// them leaves the table with new fields but an old name. A failing
// field-add aborts the loop and the error names the field so operators
// can repair remote state by hand.
func (c *Connector) UpdateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error) {
	opts, err := airtableOptions(record)
	if err != nil {
		return nil, err
	}
	if opts.TableID == "" {
		return nil, errors.New(errors.ErrorTypeValidation, "airtable options: tableId is required for update")
	}

	ctx, span := c.tracer.Start(ctx, "airtable.update_table")
	defer span.End()

	updated := &models.AirtableOptions{
		BaseID:      opts.BaseID,
		TableID:     opts.TableID,
		TableName:   record.Label,
		Fields:      append([]models.AirtableField(nil), opts.Fields...),
		ExternalURL: opts.ExternalURL,
	}

	if record.Schema != nil {
		defs, err := schema.Translate(record.Schema)
		if err != nil {
			return nil, err
		}

		for _, def := range defs {
			if opts.FieldByName(def.Name) != nil {
				continue
			}
			created, err := c.addField(ctx, opts, def, record.Schema)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			updated.Fields = append(updated.Fields, *created)
		}
	}

	if err := c.updateTableMeta(ctx, opts, record.Label, record.Description); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return updated, nil
}

// addField issues one field-creation call.
func (c *Connector) addField(ctx context.Context, opts *models.AirtableOptions, def core.FieldDefinition, recordSchema *models.RecordSchema) (*models.AirtableField, error) {
	ctx = clients.WithOperation(ctx, "add_field")

	payload := buildFieldPayload(def)
	path := fmt.Sprintf("/v0/meta/bases/%s/tables/%s/fields", opts.BaseID, opts.TableID)

	resp, err := c.client.Call(ctx, "POST", path, payload)
	if err != nil {
		wrapped := wrapWithPayload(err, fmt.Sprintf("failed to add field %q", def.Name), payload, recordSchema)
		return nil, wrapped.WithDetail("field", def.Name)
	}

	var field models.AirtableField
	if err := resp.DecodeJSON(&field); err != nil {
		return nil, err
	}

	c.logger.Info("field added",
		zap.String("table_id", opts.TableID),
		zap.String("field", field.Name),
		zap.String("type", field.Type))

	return &field, nil
}

// updateTableMeta renames and redescribes the table.
func (c *Connector) updateTableMeta(ctx context.Context, opts *models.AirtableOptions, name, description string) error {
	ctx = clients.WithOperation(ctx, "update_table_meta")

	payload := map[string]string{"name": name}
	if description != "" {
		payload["description"] = description
	}

	path := fmt.Sprintf("/v0/meta/bases/%s/tables/%s", opts.BaseID, opts.TableID)
	if _, err := c.client.Call(ctx, "PATCH", path, payload); err != nil {
		return wrapWithPayload(err, "failed to update table metadata", payload, nil)
	}
	return nil
}

// SaveRecord writes one submitted form as a provider row. Empty and file
// values are skipped without failing the submission. A provider response
// with no created record returns a nil result: the caller decides how
// severe that is.
func (c *Connector) SaveRecord(ctx context.Context, record *models.Datarecord, form *models.SubmittedForm) (*core.RecordResult, error) {
	opts, err := airtableOptions(record)
	if err != nil {
		return nil, err
	}
	if opts.TableID == "" {
		return nil, errors.New(errors.ErrorTypeValidation, "airtable options: tableId is required for record writes")
	}

	ctx, span := c.tracer.Start(ctx, "airtable.save_record")
	defer span.End()
	ctx = clients.WithOperation(ctx, "create_record")

	fields := make(map[string]interface{})
	for _, formField := range form.Fields() {
		value, ok := firstUsableValue(formField)
		if !ok {
			reason := "empty"
			if len(formField.Values) > 0 && formField.Values[0].IsFile() {
				reason = "file"
				c.logger.Info("skipping file field, external sync does not support uploads",
					zap.String("field", formField.Name))
			}
			metrics.FieldsSkipped.WithLabelValues(providerName, reason).Inc()
			continue
		}

		var fieldType core.FieldType
		if def := opts.FieldByName(formField.Name); def != nil {
			fieldType = core.FieldType(def.Type)
		}
		fields[formField.Name] = schema.Convert(value, fieldType)
	}

	if len(fields) == 0 {
		c.logger.Warn("no usable fields in submission, skipping row create",
			zap.String("table_id", opts.TableID))
		metrics.RecordsSynced.WithLabelValues(providerName, "soft_failure").Inc()
		return nil, nil
	}

	payload := recordsPayload{Records: []recordEntry{{Fields: fields}}}
	path := fmt.Sprintf("/v0/%s/%s", opts.BaseID, opts.TableID)

	resp, err := c.client.Call(ctx, "POST", path, payload)
	if err != nil {
		span.RecordError(err)
		metrics.RecordsSynced.WithLabelValues(providerName, "error").Inc()
		return nil, wrapWithPayload(err, "failed to create record", payload, record.Schema)
	}

	var created recordsResponse
	if err := resp.DecodeJSON(&created); err != nil {
		return nil, err
	}

	if len(created.Records) == 0 {
		c.logger.Warn("provider returned no created record",
			zap.String("table_id", opts.TableID))
		metrics.RecordsSynced.WithLabelValues(providerName, "soft_failure").Inc()
		return nil, nil
	}

	metrics.RecordsSynced.WithLabelValues(providerName, "success").Inc()
	return &core.RecordResult{ID: created.Records[0].ID}, nil
}

// Base is one workspace visible to the access token.
type Base struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PermissionLevel string `json:"permissionLevel,omitempty"`
}

// ListBases lists the workspaces the token can reach.
func (c *Connector) ListBases(ctx context.Context) ([]Base, error) {
	ctx = clients.WithOperation(ctx, "list_bases")

	resp, err := c.client.Call(ctx, "GET", "/v0/meta/bases", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Bases []Base `json:"bases"`
	}
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, err
	}
	return out.Bases, nil
}

// firstUsableValue returns the first non-file, non-empty value.
func firstUsableValue(field models.FormField) (string, bool) {
	for _, v := range field.Values {
		if v.IsFile() {
			continue
		}
		if v.Value == "" {
			continue
		}
		return v.Value, true
	}
	return "", false
}

// airtableOptions extracts and validates the provider options union.
func airtableOptions(record *models.Datarecord) (*models.AirtableOptions, error) {
	if record == nil || record.Options == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "datarecord with airtable options is required")
	}
	opts, ok := record.Options.(*models.AirtableOptions)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"expected airtable options, got %s", record.Options.Provider())
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid airtable options")
	}
	return opts, nil
}

// buildFieldPayload maps a translated field definition to the provider's
// field-creation shape.
func buildFieldPayload(def core.FieldDefinition) fieldPayload {
	payload := fieldPayload{
		Name: def.Name,
		Type: string(def.Type),
	}

	switch def.Type {
	case core.FieldTypeNumber:
		precision := def.Precision
		payload.Options = &fieldOptions{Precision: &precision}
	case core.FieldTypeSingleSelect, core.FieldTypeMultipleSelect:
		choices := make([]choiceName, 0, len(def.Choices))
		for _, name := range def.Choices {
			choices = append(choices, choiceName{Name: name})
		}
		payload.Options = &fieldOptions{Choices: choices}
	}

	return payload
}

// wrapWithPayload attaches the serialized request payload and schema to
// a provider error for operator diagnosis.
func wrapWithPayload(err error, message string, payload interface{}, recordSchema *models.RecordSchema) *errors.Error {
	wrapped := errors.Wrap(err, errors.GetType(err), message)
	if data, merr := jsonx.Marshal(payload); merr == nil {
		wrapped = wrapped.WithDetail("payload", string(data))
	}
	if recordSchema != nil {
		if data, merr := jsonx.Marshal(recordSchema); merr == nil {
			wrapped = wrapped.WithDetail("schema", string(data))
		}
	}
	return wrapped
}
