package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/annopack/internal/sqlite"
	"github.com/mesh-intelligence/annopack/pkg/pack"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <pack-id> <out.jsonl>",
		Short: "Write a stored pack to a JSONL file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, path := args[0], args[1]

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.LoadPack(id)
			if err != nil {
				return storeError("export", err)
			}
			if err := sqlite.ExportJSONL(path, p); err != nil {
				return sysError("export: %w", err)
			}

			result := map[string]any{"pack_id": id, "path": path, "entries": p.Len()}
			return a.output(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Exported %d entries of pack %s to %s\n", p.Len(), id, path)
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <in.jsonl>",
		Short: "Store a pack read from a JSONL file",
		Long: `Import restores a pack written by export and saves it under its
original id, replacing any stored pack with that id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			p, err := sqlite.ImportJSONL(path, pack.WithLogger(a.logger))
			if err != nil {
				return userError("import: %w", err)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SavePack(p); err != nil {
				return storeError("import", err)
			}

			result := map[string]any{"pack_id": p.ID(), "name": p.Name(), "entries": p.Len()}
			return a.output(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Imported pack %s (%d entries)\n", p.ID(), p.Len())
			})
		},
	}
}
