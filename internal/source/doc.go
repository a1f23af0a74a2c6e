// Package source supplies raw table rows to the compiler.
//
// Every type here implements compiler.RowSource. Sources only read and
// split text; they do not interpret cells. A source error is reported by
// compiler.Load as SOURCE_UNAVAILABLE.
//
//   - Static: in-memory headers and rows
//   - Delimited: CSV-like text with delimiter and encoding detection
//   - CUE: a CUE document with headers and rows fields
//   - Snapshot: rows previously imported into a store
package source
