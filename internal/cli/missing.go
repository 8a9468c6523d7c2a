package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/showtrans/internal/annotate"
	"github.com/modu-ai/showtrans/internal/i18n"
	"github.com/modu-ai/showtrans/internal/table"
	"github.com/modu-ai/showtrans/internal/ui"
)

var missingTable string

// errMissingKeys signals unresolved keys through the exit status.
var errMissingKeys = errors.New("unresolved translation keys")

var missingCmd = &cobra.Command{
	Use:   "missing FILE",
	Short: "List t('key') calls that the table cannot resolve",
	Long: `Missing prints every t('key') call in FILE whose key is absent from the
translation table or maps to an empty value, as FILE:LINE:COLUMN KEY.
The command exits with a non-zero status when any are found.`,
	Args: cobra.ExactArgs(1),
	RunE: runMissing,
}

func init() {
	missingCmd.Flags().StringVarP(&missingTable, "table", "t", "", "translation table file (.json, .yaml, .toml)")
	rootCmd.AddCommand(missingCmd)
}

func runMissing(cmd *cobra.Command, args []string) error {
	if deps == nil {
		return fmt.Errorf("dependencies not initialized")
	}

	messenger := ui.NewMessenger(cmd.ErrOrStderr(), deps.Config.NoColor)

	doc, err := readDocument(args)
	if err != nil {
		return err
	}

	path, err := deps.tablePicker(missingTable).PickTable(cmd.Context())
	if err != nil {
		if errors.Is(err, ui.ErrNoFileSelected) {
			messenger.Notify(ui.LevelWarning, deps.Messages.T(i18n.MsgNoFileSelected, nil))
			return reported(err)
		}
		return err
	}

	tbl, err := table.Load(path)
	if err != nil {
		deps.Logger.Warn("translation table rejected", "path", path, "error", err)
		messenger.Notify(ui.LevelError, deps.Messages.T(i18n.MsgParseError, nil))
		return reported(err)
	}

	matches := annotate.Missing(doc.Text, tbl)
	if len(matches) == 0 {
		return nil
	}

	positions := annotate.NewDocument(doc.Text)
	out := cmd.OutOrStdout()
	for _, m := range matches {
		p := positions.PositionAt(m.Start)
		if _, err := fmt.Fprintf(out, "%s:%d:%d %s\n", doc.URI, p.Line+1, p.Character+1, m.Key); err != nil {
			return err
		}
	}

	messenger.Notify(ui.LevelWarning, deps.Messages.Plural(i18n.MsgMissingKeys, len(matches)))
	return reported(errMissingKeys)
}
