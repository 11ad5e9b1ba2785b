package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonx "github.com/ajitpratap0/recordsync/pkg/json"
)

func TestDatarecordUnmarshalAirtable(t *testing.T) {
	data := []byte(`{
		"id": "dr_1",
		"label": "Leads",
		"provider": "airtable",
		"options": {"baseId": "appX", "tableId": "tblY", "tableName": "Leads"},
		"schema": {"type": "object", "properties": {"name": {"type": "string"}}}
	}`)

	var rec Datarecord
	require.NoError(t, jsonx.Unmarshal(data, &rec))

	assert.Equal(t, ProviderAirtable, rec.Provider)
	opts, ok := rec.Options.(*AirtableOptions)
	require.True(t, ok, "options should decode to AirtableOptions")
	assert.Equal(t, "appX", opts.BaseID)
	assert.Equal(t, "tblY", opts.TableID)
	require.NoError(t, rec.Validate())
}

func TestDatarecordUnmarshalGoogleSheets(t *testing.T) {
	data := []byte(`{
		"id": "dr_2",
		"label": "Signups",
		"provider": "google-sheets",
		"options": {"spreadsheetId": "sheet123"}
	}`)

	var rec Datarecord
	require.NoError(t, jsonx.Unmarshal(data, &rec))

	opts, ok := rec.Options.(*GoogleSheetsOptions)
	require.True(t, ok)
	assert.Equal(t, "sheet123", opts.SpreadsheetID)
}

func TestDatarecordUnmarshalUnknownProvider(t *testing.T) {
	data := []byte(`{"id": "x", "provider": "ftp", "options": {}}`)
	var rec Datarecord
	assert.Error(t, jsonx.Unmarshal(data, &rec))
}

func TestDatarecordValidateMismatchedOptions(t *testing.T) {
	rec := Datarecord{
		ID:       "dr_3",
		Provider: ProviderAirtable,
		Options:  &GoogleSheetsOptions{SpreadsheetID: "s"},
	}
	assert.Error(t, rec.Validate())
}

func TestProviderIsExternal(t *testing.T) {
	assert.True(t, ProviderAirtable.IsExternal())
	assert.True(t, ProviderGoogleSheets.IsExternal())
	assert.True(t, ProviderNotion.IsExternal())
	assert.False(t, ProviderInternal.IsExternal())
	assert.False(t, Provider("bogus").IsExternal())
}

func TestAirtableFieldByName(t *testing.T) {
	opts := &AirtableOptions{
		BaseID: "app1",
		Fields: []AirtableField{
			{ID: "fld1", Name: "name", Type: "singleLineText"},
			{ID: "fld2", Name: "score", Type: "number"},
		},
	}

	field := opts.FieldByName("score")
	require.NotNil(t, field)
	assert.Equal(t, "number", field.Type)

	assert.Nil(t, opts.FieldByName("missing"))
}

func TestPropertyMapPreservesOrder(t *testing.T) {
	data := []byte(`{"zeta": {"type": "string"}, "alpha": {"type": "number"}, "mid": {"type": "boolean"}}`)

	var m PropertyMap
	require.NoError(t, jsonx.Unmarshal(data, &m))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Names())

	prop, ok := m.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "number", prop.Type)
}

func TestPropertyMapRoundTrip(t *testing.T) {
	m := NewPropertyMap(
		PropertyPair{Name: "b", Property: SchemaProperty{Type: "string", Format: "email"}},
		PropertyPair{Name: "a", Property: SchemaProperty{Type: "boolean"}},
	)

	data, err := jsonx.Marshal(m)
	require.NoError(t, err)

	var back PropertyMap
	require.NoError(t, jsonx.Unmarshal(data, &back))
	assert.Equal(t, []string{"b", "a"}, back.Names())
}

func TestSubmittedFormOrderAndMultiValues(t *testing.T) {
	form := NewSubmittedForm()
	form.Add("name", "Jo")
	form.Add("tags", "a")
	form.Add("tags", "b")
	form.AddFile("resume", &FormFile{Filename: "cv.pdf", ContentType: "application/pdf"})

	fields := form.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "name", fields[0].Name)
	assert.Equal(t, "tags", fields[1].Name)
	assert.Equal(t, "resume", fields[2].Name)
	assert.Len(t, fields[1].Values, 2)

	v, ok := form.Get("resume")
	require.True(t, ok)
	assert.True(t, v.IsFile())
}
