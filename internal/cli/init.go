package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and pack database",
		Long: "Init writes config.yaml into the config directory if it is missing,\n" +
			"then creates the pack database in the data directory. Running it\n" +
			"again is harmless.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := writeConfigIfMissing(a.configDir, a.dataDir)
			if err != nil {
				return sysError("%w", err)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return sysError("close store: %w", err)
			}

			result := map[string]any{
				"config_dir":     a.configDir,
				"data_dir":       a.dataDir,
				"database":       store.Path(),
				"config_created": created,
			}
			return a.output(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Config: %s\nDatabase: %s\n", a.configDir, store.Path())
				fmt.Fprintln(w, "annopack initialized successfully")
			})
		},
	}
}
