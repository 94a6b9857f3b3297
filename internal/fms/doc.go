// Package fms turns rows of the farm management system result table into the
// numbers shown on the FMS report page and the CSV download.
//
// Rows arrive as loosely typed Records. Every reader in this package is total:
// a missing column, a null or an unparseable cell falls back to a default and
// never aborts the fold, so a broken row degrades the report instead of
// failing the request.
package fms
