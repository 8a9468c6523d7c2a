package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// TableExtensions are the file types offered by the table picker.
var TableExtensions = []string{".json"}

// TablePicker asks the user for a translation table file.
type TablePicker interface {
	// PickTable returns the chosen path or ErrNoFileSelected.
	PickTable(ctx context.Context) (string, error)
}

// filePicker implements TablePicker with a huh file picker form.
type filePicker struct {
	dir      string
	headless *HeadlessManager
}

// NewTablePicker creates a picker rooted at dir. In headless mode the picker
// never prompts and reports ErrNoFileSelected.
func NewTablePicker(dir string, hm *HeadlessManager) TablePicker {
	return &filePicker{dir: dir, headless: hm}
}

// PickTable runs the picker form.
func (p *filePicker) PickTable(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.headless.IsHeadless() {
		return "", fmt.Errorf("%w: %w", ErrNoFileSelected, ErrHeadless)
	}

	var path string
	field := huh.NewFilePicker().
		Title("Translation table").
		Description("Choose the JSON file that maps keys to values").
		CurrentDirectory(p.dir).
		AllowedTypes(TableExtensions).
		FileAllowed(true).
		DirAllowed(false).
		Picking(true).
		Value(&path)

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(newPickerTheme()).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrNoFileSelected
		}
		return "", fmt.Errorf("table picker: %w", err)
	}
	if path == "" {
		return "", ErrNoFileSelected
	}
	return path, nil
}

// StaticPicker returns a fixed path; an empty path means no selection.
type StaticPicker string

// PickTable implements TablePicker.
func (s StaticPicker) PickTable(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == "" {
		return "", ErrNoFileSelected
	}
	return string(s), nil
}
