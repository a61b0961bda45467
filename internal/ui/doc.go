// Package ui provides the human-facing surfaces of branchsweep.
//
// BranchEventFormatter turns deletion lifecycle events into short console
// messages which either a writer-backed reporter or a human-readable zap logger
// emits. PickerModel is the bubbletea program behind the interactive cleanup
// command: it lists branches oldest first, lets the operator mark and fuzzy
// filter them, and deletes the marked ones after confirmation.
package ui
