package util

import (
	"time"
)

// Notification constructs the title and message for a user-facing notice
type Notification struct {
	Title   string
	Message string

	// Immediate skips any coalescing in the notifier
	Immediate bool
	Delay     time.Duration
}
