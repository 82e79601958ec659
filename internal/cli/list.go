package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.ListPacks()
			if err != nil {
				return storeError("list", err)
			}

			return a.output(cmd.OutOrStdout(), infos, func(w io.Writer) {
				if len(infos) == 0 {
					fmt.Fprintln(w, "No packs found.")
					return
				}
				rows := make([][]string, len(infos))
				for i, info := range infos {
					rows[i] = []string{
						info.ID,
						truncate(info.Name, 40),
						strconv.Itoa(info.Entries),
						info.SavedAt.Format("2006-01-02 15:04"),
					}
				}
				writeTable(w, []string{"PACK", "NAME", "ENTRIES", "SAVED"}, rows)
				fmt.Fprintf(w, "Total: %d pack(s)\n", len(infos))
			})
		},
	}
}
