// Package recordsync synchronizes CMS-defined record schemas and
// submitted form data against external structured-data backends: a
// tabular database service (Airtable), a spreadsheet service (Google
// Sheets) and a document-database service (Notion, stub).
//
// The layer is invoked by the CMS's record-submission handler. It owns
// schema-to-provider-table translation, per-field type coercion,
// rate-limit-aware retry, and (for the spreadsheet backend) a full
// download/append/reupload cycle over the provider's resumable-upload
// protocol.
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/ajitpratap0/recordsync"
//	    "github.com/ajitpratap0/recordsync/pkg/config"
//	    "github.com/ajitpratap0/recordsync/pkg/models"
//	)
//
//	cfg := config.DefaultSyncConfig()
//	conn, err := recordsync.ConnectorFor(record.Provider, accessToken, cfg)
//	if err != nil {
//	    return err
//	}
//
//	result, err := conn.SaveRecord(ctx, record, form)
//
// Connectors register themselves with pkg/connector/registry at import
// time; importing this package pulls in all three providers.
//
// All operations are synchronous request/response chains. Retry waits
// block the calling goroutine, which is acceptable in the CMS's batch
// submission context but makes this layer unsuitable for serving
// latency-sensitive request paths directly.
package recordsync
