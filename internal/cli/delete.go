package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pack-id>",
		Short: "Delete a stored pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeletePack(id); err != nil {
				return storeError("delete", err)
			}
			return a.output(cmd.OutOrStdout(), map[string]string{"deleted": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted pack %s\n", id)
			})
		},
	}
}
