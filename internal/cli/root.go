package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modu-ai/showtrans/pkg/version"
)

// Persistent flag values shared by all subcommands.
var (
	flagConfig         string
	flagNoColor        bool
	flagLang           string
	flagDebug          bool
	flagNonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "showtrans",
	Short: "Show translation values next to t('key') calls",
	Long: `showtrans resolves t('key') calls in source files against a translation
table (JSON, YAML or TOML) and shows each value inline, right after the key.

It runs as a language server for editors that support inlay hints, or prints
annotated files directly in the terminal.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return InitDependencies(cmd)
	},
}

// errReported marks an error the user has already been told about.
type errReported struct {
	err error
}

func (e *errReported) Error() string { return e.err.Error() }
func (e *errReported) Unwrap() error { return e.err }

// reported wraps err so Execute does not print it a second time.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return &errReported{err: err}
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var r *errReported
		if !errors.As(err, &r) {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	return err
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("showtrans %s\n", version.GetFullVersion()))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to a config file (default ./.showtrans.yaml)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	pf.StringVar(&flagLang, "lang", "", "language for messages (e.g. en, ko)")
	pf.BoolVar(&flagDebug, "debug", false, "debug logging and one notification per resolved value")
	pf.BoolVar(&flagNonInteractive, "non-interactive", false, "never open interactive prompts")
}
