// Package config defines device profiles: the table that maps each
// firmware blob in target-files to the partition it is flashed to.
//
// Built-in profiles cover the supported Tegra variants. Custom profiles
// are loaded from YAML and validated the same way.
package config
