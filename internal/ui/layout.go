package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which secondary columns are
	// dropped from the tables.
	LayoutCompactWidth = 90

	// LayoutFormWidth is the width of the record form modal.
	LayoutFormWidth = 60
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines kept in memory.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI reads the session snapshot.
	DefaultUIInterval = time.Second
)
