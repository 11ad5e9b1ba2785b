// Package connector groups the external-provider sync connectors.
//
// Sub-packages:
//
//   - core: the SyncConnector interface (table lifecycle plus record
//     writes) shared by all providers.
//
//   - airtable: the tabular provider. Supports table creation, additive
//     schema evolution, and row writes.
//
//   - gsheets: the spreadsheet provider. Record writes are whole-sheet
//     CSV rewrites through the resumable-upload handshake; table
//     lifecycle operations are unsupported.
//
//   - notion: a stub. Options are modeled, operations report a
//     capability error.
//
//   - registry: maps provider discriminants to connector factories.
//     Connectors self-register during initialization, so importing a
//     provider package is enough to make it selectable.
//
// Connectors are stateless between calls; credentials are injected per
// call chain, never read from the environment inside this layer.
package connector
