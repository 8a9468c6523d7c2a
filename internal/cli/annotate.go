package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modu-ai/showtrans/internal/command"
	"github.com/modu-ai/showtrans/internal/ui"
)

var (
	annotateTable  string
	annotateFormat string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [FILE]",
	Short: "Print a file with translation values shown inline",
	Long: `Annotate resolves every t('key') call in FILE against a translation table
and prints the file with the value inserted right after each key.

The table comes from --table, then the "table" config value, then an
interactive file picker. Keys that are missing or map to an empty value
are left untouched.

Examples:
  showtrans annotate src/App.tsx --table locales/en.json
  showtrans annotate src/App.tsx --format markdown`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringVarP(&annotateTable, "table", "t", "", "translation table file (.json, .yaml, .toml)")
	annotateCmd.Flags().StringVarP(&annotateFormat, "format", "f", "text", "output format: text or markdown")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if deps == nil {
		return fmt.Errorf("dependencies not initialized")
	}
	if annotateFormat != "text" && annotateFormat != "markdown" {
		return fmt.Errorf("unknown format %q: must be text or markdown", annotateFormat)
	}

	doc, err := readDocument(args)
	if err != nil {
		return err
	}

	c := &command.Translate{
		Picker:      deps.tablePicker(annotateTable),
		Notifier:    ui.NewMessenger(cmd.ErrOrStderr(), deps.Config.NoColor),
		Messages:    deps.Messages,
		Registry:    deps.Registry,
		Logger:      deps.Logger,
		DebugNotify: deps.Config.DebugNotify,
	}

	res, err := c.Run(cmd.Context(), doc)
	if err != nil {
		return reported(err)
	}

	out := cmd.OutOrStdout()
	if annotateFormat == "markdown" {
		md := ui.ReportMarkdown(res.Document, res.TablePath, res.Hints)
		rendered, err := ui.RenderMarkdown(md, 100, deps.Config.NoColor)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	}

	_, err = fmt.Fprint(out, ui.RenderInline(doc.Text, res.Annotations, ui.NewStyles(deps.Config.NoColor)))
	return err
}

// readDocument loads the file named in args. No argument means there is no
// active document.
func readDocument(args []string) (*command.Document, error) {
	if len(args) == 0 {
		return nil, nil
	}
	path := filepath.Clean(args[0])
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return &command.Document{URI: path, Text: string(data)}, nil
}
