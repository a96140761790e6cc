// Package packager runs a firmware install plan against target-files (and
// source-files for incremental packages) and writes the resulting OTA
// package fragment.
//
// The output zip receives the embedded blobs plus the generated edify
// lines. A YAML manifest listing every embedded blob with its partition,
// size and SHA-1 can be written alongside for release bookkeeping.
package packager
