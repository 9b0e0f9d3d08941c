// Package core provides the record pipeline that turns loosely-structured
// shipment sheets into canonical records.
//
// This package holds all domain logic that is independent of any transport
// or rendering concern. It can be used by web handlers, CLI tools, or tests
// without modification.
//
// # Architecture
//
// The pipeline is organized around a few small pieces:
//
//   - Text normalization: [NormalizeText] folds case, accents and
//     punctuation so column headers can be compared fuzzily.
//   - Column resolution: [ResolveColumn] maps an ordered alias list onto
//     the real columns of a [Table].
//   - Record normalization: [NormalizeTable] builds canonical [Record]
//     values, enforcing required fields and coercion rules.
//   - Reading: [ReadTable] parses uploaded or downloaded CSV exports,
//     tolerating a BOM and stray Windows-1252 bytes.
//   - Storage: [RecordStore] persists the ordered record collection as a
//     single CSV file whose modification time doubles as a freshness token.
//   - Admission: [Limiter] bounds how many imports and renders run at once.
//
// # Field Aliases
//
// Aliases are evaluated in the fixed order of [FieldAliases]. Within a
// field, the first alias wins; for a single alias, the first column in
// source order wins:
//
//	col, ok := core.ResolveColumn([]string{"cp", "codigo postal"}, idx)
//
// # Error Handling
//
// Field and source failures abort the whole batch and surface verbatim:
//
//   - [MissingFieldError]: a required field has no resolvable column; it
//     names the closest existing column when one is near an alias
//   - [SourceUnavailableError]: the backing sheet could not be fetched
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - FIELD001: missing column
//   - SRC001-SRC002: source errors (unreachable sheet, bad URL)
//   - FILE001-FILE005: file errors (size, format, empty)
//   - MAP001: invalid product mapping
//   - REQ001, BUSY001, UPL004-UPL005, RATE001: load and request errors
package core
