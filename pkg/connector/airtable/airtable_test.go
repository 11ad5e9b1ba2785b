package airtable

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recordsync/pkg/clients"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	jsonx "github.com/ajitpratap0/recordsync/pkg/json"
	"github.com/ajitpratap0/recordsync/pkg/models"
)

func newTestConnector(t *testing.T, baseURL string) *Connector {
	t.Helper()
	c, err := New("test-token", nil,
		WithBaseURL(baseURL),
		WithClientOptions(clients.WithRetryPolicy(clients.NoRetryPolicy())))
	require.NoError(t, err)
	return c
}

func decodeBody(t *testing.T, r *http.Request, out interface{}) {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.NoError(t, jsonx.Unmarshal(data, out))
}

func leadsRecord(opts *models.AirtableOptions) *models.Datarecord {
	return &models.Datarecord{
		ID:          "dr_1",
		Label:       "Leads",
		Description: "Inbound leads",
		Provider:    models.ProviderAirtable,
		Options:     opts,
		Schema: &models.RecordSchema{
			Type: "object",
			Properties: models.NewPropertyMap(
				models.PropertyPair{Name: "name", Property: models.SchemaProperty{Type: "string"}},
				models.PropertyPair{Name: "score", Property: models.SchemaProperty{Type: "number"}},
			),
		},
	}
}

func TestCreateTable(t *testing.T) {
	var got tablePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v0/meta/bases/appX/tables", r.URL.Path)
		decodeBody(t, r, &got)
		_, _ = w.Write([]byte(`{
			"id": "tblNew",
			"name": "Leads",
			"fields": [
				{"id": "fld1", "name": "name", "type": "singleLineText"},
				{"id": "fld2", "name": "score", "type": "number"}
			]
		}`))
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	result, err := conn.CreateTable(context.Background(), leadsRecord(&models.AirtableOptions{BaseID: "appX"}))
	require.NoError(t, err)

	assert.Equal(t, "Leads", got.Name)
	assert.Equal(t, "Inbound leads", got.Description)
	require.Len(t, got.Fields, 2)
	assert.Equal(t, "name", got.Fields[0].Name)
	assert.Equal(t, "singleLineText", got.Fields[0].Type)
	assert.Equal(t, "score", got.Fields[1].Name)
	assert.Equal(t, "number", got.Fields[1].Type)
	require.NotNil(t, got.Fields[1].Options)
	require.NotNil(t, got.Fields[1].Options.Precision)
	assert.Equal(t, 8, *got.Fields[1].Options.Precision)

	opts, ok := result.(*models.AirtableOptions)
	require.True(t, ok)
	assert.Equal(t, "appX", opts.BaseID)
	assert.Equal(t, "tblNew", opts.TableID)
	require.Len(t, opts.Fields, 2)
	assert.Equal(t, "fld2", opts.Fields[1].ID)
}

// Extending a table adds only the fields missing remotely, one call per
// field, then renames the table.
func TestUpdateTableAddsOnlyMissingFields(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		switch {
		case r.Method == "POST":
			var field fieldPayload
			decodeBody(t, r, &field)
			assert.Equal(t, "score", field.Name, "only the missing field is added")
			_, _ = w.Write([]byte(`{"id": "fldScore", "name": "score", "type": "number"}`))
		case r.Method == "PATCH":
			var meta map[string]string
			decodeBody(t, r, &meta)
			assert.Equal(t, "Leads", meta["name"])
			assert.Equal(t, "Inbound leads", meta["description"])
			_, _ = w.Write([]byte(`{"id": "tblY", "name": "Leads"}`))
		}
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	record := leadsRecord(&models.AirtableOptions{
		BaseID:  "appX",
		TableID: "tblY",
		Fields: []models.AirtableField{
			{ID: "fld1", Name: "name", Type: "singleLineText"},
		},
	})

	result, err := conn.UpdateTable(context.Background(), record)
	require.NoError(t, err)

	require.Len(t, calls, 2, "one field add, then one metadata update")
	assert.Equal(t, call{"POST", "/v0/meta/bases/appX/tables/tblY/fields"}, calls[0])
	assert.Equal(t, call{"PATCH", "/v0/meta/bases/appX/tables/tblY"}, calls[1])

	opts := result.(*models.AirtableOptions)
	require.Len(t, opts.Fields, 2)
	assert.Equal(t, "fldScore", opts.Fields[1].ID)
}

// A failing field add aborts the update and names the field so an
// operator can repair the half-extended table.
func TestUpdateTableFieldAddFailureNamesField(t *testing.T) {
	var patchCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "PATCH" {
			patchCalls++
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_VALUE"}}`))
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	record := leadsRecord(&models.AirtableOptions{
		BaseID:  "appX",
		TableID: "tblY",
		Fields: []models.AirtableField{
			{ID: "fld1", Name: "name", Type: "singleLineText"},
		},
	})

	_, err := conn.UpdateTable(context.Background(), record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score")
	assert.Equal(t, 0, patchCalls, "rename must not run after a failed field add")

	var typed *errors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "score", typed.Details["field"])
	assert.Contains(t, typed.Details["payload"], "score")
}

func TestUpdateTableRequiresTableID(t *testing.T) {
	conn := newTestConnector(t, "https://unreachable.invalid")
	_, err := conn.UpdateTable(context.Background(), leadsRecord(&models.AirtableOptions{BaseID: "appX"}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSaveRecordSkipsFilesAndEmpties(t *testing.T) {
	var got recordsPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/appX/tblY", r.URL.Path)
		decodeBody(t, r, &got)
		_, _ = w.Write([]byte(`{"records": [{"id": "recNew"}]}`))
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	record := leadsRecord(&models.AirtableOptions{
		BaseID:  "appX",
		TableID: "tblY",
		Fields: []models.AirtableField{
			{ID: "fld1", Name: "name", Type: "singleLineText"},
			{ID: "fld2", Name: "score", Type: "number"},
		},
	})

	form := models.NewSubmittedForm()
	form.Add("name", "Jo")
	form.Add("comment", "")
	form.AddFile("resume", &models.FormFile{Filename: "cv.pdf"})

	result, err := conn.SaveRecord(context.Background(), record, form)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "recNew", result.ID)

	require.Len(t, got.Records, 1)
	fields := got.Records[0].Fields
	require.Len(t, fields, 1, "file and empty fields must be skipped")
	assert.Equal(t, "Jo", fields["name"])
}

func TestSaveRecordConvertsByFieldType(t *testing.T) {
	var got recordsPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		_, _ = w.Write([]byte(`{"records": [{"id": "rec1"}]}`))
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	record := leadsRecord(&models.AirtableOptions{
		BaseID:  "appX",
		TableID: "tblY",
		Fields: []models.AirtableField{
			{ID: "fld1", Name: "score", Type: "number"},
			{ID: "fld2", Name: "active", Type: "checkbox"},
		},
	})

	form := models.NewSubmittedForm()
	form.Add("score", "3.5")
	form.Add("active", "on")

	_, err := conn.SaveRecord(context.Background(), record, form)
	require.NoError(t, err)

	fields := got.Records[0].Fields
	assert.Equal(t, 3.5, fields["score"])
	assert.Equal(t, true, fields["active"])
}

// A submission with nothing usable is skipped without a provider call
// and without an error.
func TestSaveRecordSoftFailureNoUsableFields(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	record := leadsRecord(&models.AirtableOptions{BaseID: "appX", TableID: "tblY"})

	form := models.NewSubmittedForm()
	form.AddFile("resume", &models.FormFile{Filename: "cv.pdf"})
	form.Add("comment", "")

	result, err := conn.SaveRecord(context.Background(), record, form)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, calls)
}

func TestSaveRecordSoftFailureEmptyProviderResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records": []}`))
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	record := leadsRecord(&models.AirtableOptions{BaseID: "appX", TableID: "tblY"})

	form := models.NewSubmittedForm()
	form.Add("name", "Jo")

	result, err := conn.SaveRecord(context.Background(), record, form)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSaveRecordRejectsMismatchedOptions(t *testing.T) {
	conn := newTestConnector(t, "https://unreachable.invalid")
	record := &models.Datarecord{
		ID:       "dr_x",
		Provider: models.ProviderAirtable,
		Options:  &models.GoogleSheetsOptions{SpreadsheetID: "s"},
	}

	_, err := conn.SaveRecord(context.Background(), record, models.NewSubmittedForm())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestListBases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/meta/bases", r.URL.Path)
		_, _ = w.Write([]byte(`{"bases": [
			{"id": "app1", "name": "CRM", "permissionLevel": "create"},
			{"id": "app2", "name": "Ops"}
		]}`))
	}))
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)
	bases, err := conn.ListBases(context.Background())
	require.NoError(t, err)
	require.Len(t, bases, 2)
	assert.Equal(t, "app1", bases[0].ID)
	assert.Equal(t, "CRM", bases[0].Name)
}
