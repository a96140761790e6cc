// Package edify accumulates installer script lines and formats the
// instructions the on-device updater executes at flash time.
package edify
