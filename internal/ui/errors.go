// Package ui holds the terminal-facing pieces of showtrans: the table file
// picker, user notifications and inline hint rendering.
package ui

import "errors"

var (
	// ErrNoFileSelected indicates the picker closed without a selection.
	ErrNoFileSelected = errors.New("ui: no file selected")

	// ErrHeadless indicates an interactive component was needed without a TTY.
	ErrHeadless = errors.New("ui: interactive input unavailable in headless mode")
)
