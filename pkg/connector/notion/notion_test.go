package notion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recordsync/pkg/errors"
	"github.com/ajitpratap0/recordsync/pkg/models"
)

func TestAllOperationsReportUnimplemented(t *testing.T) {
	conn, err := New("test-token", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderNotion, conn.Name())

	record := &models.Datarecord{
		ID:       "dr_n",
		Provider: models.ProviderNotion,
		Options:  &models.NotionOptions{ID: "page1"},
	}

	_, err = conn.CreateTable(context.Background(), record)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
	assert.Contains(t, err.Error(), "not implemented")

	_, err = conn.UpdateTable(context.Background(), record)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))

	_, err = conn.SaveRecord(context.Background(), record, models.NewSubmittedForm())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
}
