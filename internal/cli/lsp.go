package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modu-ai/showtrans/internal/lsp"
	"github.com/modu-ai/showtrans/pkg/version"
)

var lspListen string

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the showtrans language server",
	Long: `Run a Language Server that shows translation values as inlay hints.

Editors invoke the "showtrans.translate" command with the table path (and
optionally a document URI) to attach hints to the active document. Running
the command again replaces the hints of that document.

The server speaks over stdio unless --listen is given.`,
	Args: cobra.NoArgs,
	RunE: runLSP,
}

func init() {
	lspCmd.Flags().StringVar(&lspListen, "listen", "", "serve a single client over TCP at this address instead of stdio")
	rootCmd.AddCommand(lspCmd)
}

func runLSP(cmd *cobra.Command, _ []string) error {
	if deps == nil {
		return fmt.Errorf("dependencies not initialized")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport, err := openTransport(ctx)
	if err != nil {
		return err
	}

	srv := lsp.NewServer(transport, deps.Registry,
		lsp.WithLogger(deps.Logger),
		lsp.WithMessages(deps.Messages),
		lsp.WithDebugNotify(deps.Config.DebugNotify),
		lsp.WithVersion(version.GetVersion()),
	)

	deps.Logger.Info("language server started", "listen", lspListen)
	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("language server: %w", err)
	}
	return nil
}

func openTransport(ctx context.Context) (lsp.MessageTransport, error) {
	if lspListen != "" {
		return lsp.AcceptTCP(ctx, lspListen)
	}
	return lsp.NewStreamTransport(os.Stdin, os.Stdout, os.Stdin), nil
}
