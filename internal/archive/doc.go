// Package archive gives read-only access to target-files and source-files
// zip archives and writes the output OTA package.
//
// Absence of an entry is reported through Lookup's boolean result rather
// than an error, so callers decide whether a missing blob is a skip or a
// failure. Underlying read failures are returned wrapped, never swallowed.
package archive
