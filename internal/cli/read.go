package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/annopack/internal/reader"
	"github.com/mesh-intelligence/annopack/pkg/pack"
)

func newReadCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "read <file.json>...",
		Short: "Read Prodigy documents into stored packs",
		Long: `Read parses each Prodigy JSON document into a pack holding a Document,
its Tokens and one EntityMention per labelled span, then saves the pack.

Example:
  annopack read news.json
  annopack read --name messi news.json --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return userError("--name needs exactly one file, got %d", len(args))
			}

			packs := make([]*pack.Pack, 0, len(args))
			for _, path := range args {
				opts := []reader.Option{reader.WithLogger(a.logger)}
				if name != "" {
					opts = append(opts, reader.WithName(name))
				}
				p, err := reader.ReadProdigyFile(path, opts...)
				if err != nil {
					return userError("read: %w", err)
				}
				packs = append(packs, p)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			infos := make([]map[string]any, 0, len(packs))
			for _, p := range packs {
				if err := store.SavePack(p); err != nil {
					return storeError("save", err)
				}
				infos = append(infos, map[string]any{
					"pack_id": p.ID(),
					"name":    p.Name(),
					"entries": p.Len(),
				})
			}

			return a.output(cmd.OutOrStdout(), infos, func(w io.Writer) {
				rows := make([][]string, len(packs))
				for i, p := range packs {
					rows[i] = []string{p.ID(), p.Name(), strconv.Itoa(p.Len())}
				}
				writeTable(w, []string{"PACK", "NAME", "ENTRIES"}, rows)
				fmt.Fprintf(w, "Read %d pack(s)\n", len(packs))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "pack name (default: file name without extension)")
	return cmd
}
