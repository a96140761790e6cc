// Package planner decides which firmware blobs go into an OTA package and
// which edify instructions flash them.
//
// A Planner is built from a table of BlobSpec values, one per blob the
// device ships under RADIO/ in its target-files. Full plans embed every
// blob the target carries. Incremental plans embed only blobs whose bytes
// changed between the source and target builds. A blob that is missing is
// a skip, never an error.
package planner
