package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/ringside/internal/config"
	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/registration"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import shows and registrations from a YAML file",
	Long: `Import shows and registrations from a YAML file.

Entries with an existing id replace the stored registration. A file with a
single show assigns it to every registration that names no show.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importFile(cmd.Context(), cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importFile(ctx context.Context, w io.Writer, c config.Config, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(path) //nolint:gosec // G304: user supplied import file
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	shows, regs, err := registration.DecodeImport(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	stored, err := e.svc.Import(ctx, shows, regs)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	touched := make(map[string]bool)
	for _, reg := range stored {
		touched[reg.ShowID] = true
	}
	log.Info(log.CatImport, "Imported registrations", "file", path, "registrations", len(stored), "shows", len(shows))
	_, err = fmt.Fprintf(w, "Imported %d %s into %d %s\n",
		len(stored), plural(len(stored), "registration", "registrations"),
		len(touched), plural(len(touched), "show", "shows"))
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
