// Package cli provides the Cobra command tree and dependency wiring for the
// showtrans CLI.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/modu-ai/showtrans/internal/config"
	"github.com/modu-ai/showtrans/internal/hint"
	"github.com/modu-ai/showtrans/internal/i18n"
	"github.com/modu-ai/showtrans/internal/ui"
)

// Dependencies holds the services used by CLI commands. It is the only
// place where concrete types are instantiated and wired together.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Messages *i18n.Translator
	Registry *hint.Registry
	Headless *ui.HeadlessManager
	WorkDir  string
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies loads configuration, applies persistent flags and wires
// the services. Logs go to the command's stderr so stdout stays clean for
// output and for the LSP stream.
func InitDependencies(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := config.NewLoader().Load(wd, flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)

	hm := ui.NewHeadlessManager()
	if cfg.NonInteractive {
		hm.ForceHeadless(true)
	}

	deps = &Dependencies{
		Config:   cfg,
		Logger:   newLogger(cmd.ErrOrStderr(), cfg),
		Messages: i18n.NewTranslator(cfg.Locale),
		Registry: hint.NewRegistry(),
		Headless: hm,
		WorkDir:  wd,
	}
	slog.SetDefault(deps.Logger)
	return nil
}

// applyFlags lets explicitly set persistent flags override the config.
func applyFlags(cfg *config.Config) {
	if flagNoColor {
		cfg.NoColor = true
	}
	if flagLang != "" {
		cfg.Locale = flagLang
	}
	if flagDebug {
		cfg.DebugNotify = true
		cfg.LogLevel = "debug"
	}
	if flagNonInteractive {
		cfg.NonInteractive = true
	}
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// tablePicker returns the picker for a command: the explicit path when one
// is given, the configured default otherwise, and an interactive picker as
// the last resort.
func (d *Dependencies) tablePicker(explicit string) ui.TablePicker {
	switch {
	case explicit != "":
		return ui.StaticPicker(explicit)
	case d.Config.Table != "":
		return ui.StaticPicker(d.Config.Table)
	default:
		return ui.NewTablePicker(d.WorkDir, d.Headless)
	}
}
