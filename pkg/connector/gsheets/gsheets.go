// Package gsheets implements the spreadsheet-provider connector. Each
// record write is a whole-sheet rewrite: download the sheet as CSV,
// append the submitted row, and re-upload the full content through the
// provider's resumable-upload handshake.
package gsheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/recordsync/pkg/clients"
	"github.com/ajitpratap0/recordsync/pkg/config"
	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	"github.com/ajitpratap0/recordsync/pkg/logger"
	"github.com/ajitpratap0/recordsync/pkg/metrics"
	"github.com/ajitpratap0/recordsync/pkg/models"
)

// DefaultBaseURL is the Drive API root.
const DefaultBaseURL = "https://www.googleapis.com"

const (
	providerName    = "google-sheets"
	spreadsheetMIME = "application/vnd.google-apps.spreadsheet"
	csvMIME         = "text/csv"
)

// Connector is the spreadsheet-provider sync connector.
type Connector struct {
	client      *clients.Client
	tokenSource oauth2.TokenSource
	logger      *zap.Logger
	tracer      trace.Tracer
}

// Option customizes a Connector.
type Option func(*connOptions)

type connOptions struct {
	baseURL       string
	clientOptions []clients.Option
}

// WithBaseURL overrides the provider API root (tests).
func WithBaseURL(url string) Option {
	return func(o *connOptions) { o.baseURL = url }
}

// WithClientOptions forwards options to the underlying HTTP client.
func WithClientOptions(opts ...clients.Option) Option {
	return func(o *connOptions) { o.clientOptions = append(o.clientOptions, opts...) }
}

// New creates a connector authenticated with the given access token.
func New(accessToken string, cfg *config.SyncConfig, opts ...Option) (*Connector, error) {
	o := &connOptions{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}

	client, err := clients.New(providerName, o.baseURL, accessToken, cfg, o.clientOptions...)
	if err != nil {
		return nil, err
	}

	return &Connector{
		client:      client,
		tokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
		logger:      logger.Get().With(zap.String("connector", providerName)),
		tracer:      otel.Tracer("recordsync/gsheets"),
	}, nil
}

// Name implements core.SyncConnector.
func (c *Connector) Name() models.Provider { return models.ProviderGoogleSheets }

// CreateTable is not supported: spreadsheets are provisioned in the
// provider UI and bound by id.
func (c *Connector) CreateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error) {
	return nil, errors.New(errors.ErrorTypeCapability, "spreadsheet provisioning is not supported; bind an existing spreadsheet id")
}

// UpdateTable is not supported: the pipeline performs no schema
// reconciliation against existing sheet columns.
func (c *Connector) UpdateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error) {
	return nil, errors.New(errors.ErrorTypeCapability, "spreadsheet schema updates are not supported")
}

// SaveRecord appends one submitted row to the sheet.
//
// Pipeline: Download -> Parse -> Append -> Encode -> Init-Upload ->
// Upload. The read-modify-write is not transactional: two concurrent
// submissions against the same spreadsheet can interleave and one row
// silently lost. Callers needing stronger guarantees must serialize
// writes per spreadsheet id themselves.
//
// Failures carry the stage that failed via *StageError.
func (c *Connector) SaveRecord(ctx context.Context, record *models.Datarecord, form *models.SubmittedForm) (*core.RecordResult, error) {
	opts, err := sheetsOptions(record)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "gsheets.save_record")
	defer span.End()

	// Download
	content, err := c.downloadCSV(ctx, opts.SpreadsheetID)
	if err != nil {
		return nil, c.stageFailure(span, StageDownload, err)
	}

	// Parse
	lines := splitLines(content)

	// Append
	values := usableValues(form, c.logger)
	if len(lines) == 0 {
		header, err := encodeRow(fieldNames(form))
		if err != nil {
			return nil, c.stageFailure(span, StageAppend, err)
		}
		lines = append(lines, header)
	}

	row, err := encodeRow(values)
	if err != nil {
		return nil, c.stageFailure(span, StageAppend, err)
	}
	lines = append(lines, row)

	// Encode
	full := strings.Join(lines, "\n")

	// Init-Upload
	sessionURL, err := c.initUpload(ctx, opts.SpreadsheetID)
	if err != nil {
		return nil, c.stageFailure(span, StageInitUpload, err)
	}

	// Upload
	if err := c.upload(ctx, sessionURL, full); err != nil {
		return nil, c.stageFailure(span, StageUpload, err)
	}

	metrics.RecordsSynced.WithLabelValues(providerName, "success").Inc()
	c.logger.Info("row appended to sheet",
		zap.String("spreadsheet_id", opts.SpreadsheetID),
		zap.Int("columns", len(values)))

	// The spreadsheet provider assigns no row id.
	return &core.RecordResult{}, nil
}

// downloadCSV exports the current sheet content as CSV text.
func (c *Connector) downloadCSV(ctx context.Context, spreadsheetID string) (string, error) {
	ctx = clients.WithOperation(ctx, "export_sheet")

	path := fmt.Sprintf("/drive/v3/files/%s/export?mimeType=%s", spreadsheetID, csvMIME)
	resp, err := c.client.Call(ctx, "GET", path, nil)
	if err != nil {
		return "", err
	}
	return string(resp.Data), nil
}

// initUpload opens a resumable upload session for the file and returns
// the session URL from the Location header.
func (c *Connector) initUpload(ctx context.Context, spreadsheetID string) (string, error) {
	ctx = clients.WithOperation(ctx, "init_upload")

	path := fmt.Sprintf("/upload/drive/v3/files/%s?uploadType=resumable", spreadsheetID)
	resp, err := c.client.CallRaw(ctx, "PATCH", path, []byte{}, spreadsheetMIME)
	if err != nil {
		return "", err
	}

	sessionURL := resp.Location()
	if sessionURL == "" {
		return "", errors.New(errors.ErrorTypeProvider, "resumable upload session returned no Location header")
	}
	return sessionURL, nil
}

// upload sends the full CSV content to the session URL.
func (c *Connector) upload(ctx context.Context, sessionURL, content string) error {
	ctx = clients.WithOperation(ctx, "upload_sheet")

	_, err := c.client.CallRaw(ctx, "PUT", sessionURL, []byte(content), csvMIME)
	return err
}

func (c *Connector) stageFailure(span trace.Span, stage Stage, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	span.RecordError(stageErr)
	metrics.SheetSyncStageFailures.WithLabelValues(string(stage)).Inc()
	metrics.RecordsSynced.WithLabelValues(providerName, "error").Inc()
	c.logger.Error("sheet sync failed",
		zap.String("stage", string(stage)),
		zap.Error(err))
	return stageErr
}

// Spreadsheet is one sheet file visible to the access token.
type Spreadsheet struct {
	ID   string
	Name string
	URL  string
}

// ListSpreadsheets lists spreadsheet files the token can reach.
func (c *Connector) ListSpreadsheets(ctx context.Context) ([]Spreadsheet, error) {
	srv, err := drive.NewService(ctx, option.WithTokenSource(c.tokenSource))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create drive service")
	}

	query := fmt.Sprintf("mimeType='%s'", spreadsheetMIME)
	list, err := srv.Files.List().Q(query).Fields("files(id, name, webViewLink)").Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeProvider, "failed to list spreadsheets")
	}

	sheets := make([]Spreadsheet, 0, len(list.Files))
	for _, f := range list.Files {
		sheets = append(sheets, Spreadsheet{ID: f.Id, Name: f.Name, URL: f.WebViewLink})
	}
	return sheets, nil
}

// splitLines splits sheet content into lines, dropping trailing empties
// so the rejoin does not accumulate blank rows.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// encodeRow CSV-encodes one row: values containing commas, quotes or
// newlines are quoted with internal quotes doubled.
func encodeRow(values []string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(values); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeData, "failed to encode CSV row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeData, "failed to encode CSV row")
	}
	return strings.TrimRight(buf.String(), "\r\n"), nil
}

// usableValues collects submitted string values in form order. File
// values are skipped, logged, without failing the submission.
func usableValues(form *models.SubmittedForm, log *zap.Logger) []string {
	values := make([]string, 0, form.Len())
	for _, field := range form.Fields() {
		value := ""
		for _, v := range field.Values {
			if v.IsFile() {
				log.Info("skipping file field, external sync does not support uploads",
					zap.String("field", field.Name))
				metrics.FieldsSkipped.WithLabelValues(providerName, "file").Inc()
				continue
			}
			value = v.Value
			break
		}
		values = append(values, value)
	}
	return values
}

// fieldNames returns submitted field names in form order, used to
// synthesize a header for an empty sheet.
func fieldNames(form *models.SubmittedForm) []string {
	names := make([]string, 0, form.Len())
	for _, field := range form.Fields() {
		names = append(names, field.Name)
	}
	return names
}

// sheetsOptions extracts and validates the provider options union.
func sheetsOptions(record *models.Datarecord) (*models.GoogleSheetsOptions, error) {
	if record == nil || record.Options == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "datarecord with google sheets options is required")
	}
	opts, ok := record.Options.(*models.GoogleSheetsOptions)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"expected google sheets options, got %s", record.Options.Provider())
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid google sheets options")
	}
	return opts, nil
}
