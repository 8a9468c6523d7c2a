// Package command implements the translate command shared by the CLI and
// the language server: pick a table, annotate the active document, publish
// the hints and tell the user how it went.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modu-ai/showtrans/internal/annotate"
	"github.com/modu-ai/showtrans/internal/hint"
	"github.com/modu-ai/showtrans/internal/i18n"
	"github.com/modu-ai/showtrans/internal/table"
	"github.com/modu-ai/showtrans/internal/ui"
)

var (
	// ErrNoActiveDocument indicates there is no document to annotate.
	ErrNoActiveDocument = errors.New("command: no active document")

	// ErrLoadTable indicates the table could not be read or parsed.
	ErrLoadTable = errors.New("command: load translation table")
)

// Document is the text the command annotates.
type Document struct {
	// URI identifies the document in the hint registry.
	URI  string
	Text string
}

// Result describes a successful run.
type Result struct {
	Document    string
	TablePath   string
	Table       *table.Table
	Annotations []annotate.Annotation
	Hints       []hint.Hint
	// Replaced is true when an earlier hint set for the document was dropped.
	Replaced bool
}

// Messages renders user-facing message IDs.
type Messages interface {
	T(id string, data map[string]any) string
}

// Translate runs the translate command.
type Translate struct {
	Picker   ui.TablePicker
	Notifier ui.Notifier
	Messages Messages
	Registry *hint.Registry
	Logger   *slog.Logger

	// LoadTable defaults to table.Load.
	LoadTable func(path string) (*table.Table, error)

	// DebugNotify emits one info notification per resolved value.
	DebugNotify bool
}

// Run executes the command against doc. A nil doc means no document is
// active. Every failure is reported through the Notifier before it is
// returned, and no hints are published on failure.
func (c *Translate) Run(ctx context.Context, doc *Document) (*Result, error) {
	logger := c.logger()

	path, err := c.Picker.PickTable(ctx)
	if err != nil {
		if errors.Is(err, ui.ErrNoFileSelected) {
			c.notify(ui.LevelWarning, i18n.MsgNoFileSelected, nil)
		}
		return nil, err
	}

	if doc == nil {
		c.notify(ui.LevelError, i18n.MsgNoActiveDocument, nil)
		return nil, ErrNoActiveDocument
	}

	load := c.LoadTable
	if load == nil {
		load = table.Load
	}
	tbl, err := load(path)
	if err != nil {
		logger.Warn("translation table rejected", "path", path, "error", err)
		c.notify(ui.LevelError, i18n.MsgParseError, nil)
		return nil, fmt.Errorf("%w: %w", ErrLoadTable, err)
	}

	anns := annotate.Compute(doc.Text, tbl)
	hints := hint.FromAnnotations(annotate.NewDocument(doc.Text), anns)

	if c.DebugNotify {
		for _, a := range anns {
			value, _ := tbl.Lookup(a.Key)
			c.notify(ui.LevelInfo, i18n.MsgResolvedValue, map[string]any{"Value": value})
		}
	}

	replaced := false
	if c.Registry != nil {
		replaced = c.Registry.Set(doc.URI, hints)
	}

	logger.Debug("hints attached",
		"document", doc.URI,
		"table", path,
		"keys", tbl.Len(),
		"hints", len(hints),
		"replaced", replaced,
	)
	c.notify(ui.LevelInfo, i18n.MsgSuccess, nil)

	return &Result{
		Document:    doc.URI,
		TablePath:   path,
		Table:       tbl,
		Annotations: anns,
		Hints:       hints,
		Replaced:    replaced,
	}, nil
}

func (c *Translate) notify(level ui.Level, id string, data map[string]any) {
	if c.Notifier == nil {
		return
	}
	msg := id
	if c.Messages != nil {
		msg = c.Messages.T(id, data)
	}
	c.Notifier.Notify(level, msg)
}

func (c *Translate) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
