package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/annopack/internal/processor"
)

func newMaskCmd(a *app) *cobra.Command {
	var (
		kind   string
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "mask <pack-id>",
		Short: "Reset fields of one entry kind to their zero values",
		Long: `Mask runs the attribute masker over a stored pack and saves the result.
Every entry of --kind gets the --field attributes cleared.

Example:
  annopack mask 0192f0c1-... --kind onto.Token --field ner --field pos`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "" || len(fields) == 0 {
				return userError("mask: --kind and at least one --field are required")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.LoadPack(args[0])
			if err != nil {
				return storeError("mask", err)
			}

			masker := processor.NewAttributeMasker(map[string][]string{kind: fields})
			pl, err := processor.NewPipeline([]processor.Processor{masker}, processor.WithLogger(a.logger))
			if err != nil {
				return sysError("mask: %w", err)
			}
			if err := pl.Process(cmd.Context(), p); err != nil {
				return userError("mask: %w", err)
			}

			masked := 0
			for _, e := range p.Entries() {
				if e.Kind() == kind {
					masked++
				}
			}
			if err := store.SavePack(p); err != nil {
				return storeError("mask", err)
			}

			result := map[string]any{"pack_id": p.ID(), "kind": kind, "fields": fields, "masked": masked}
			return a.output(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Masked %v on %d %s entr(ies) of pack %s\n", fields, masked, kind, p.ID())
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "entry kind to mask, e.g. onto.Token")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "field to reset (repeatable)")
	return cmd
}
