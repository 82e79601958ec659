package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/annopack"

// Version is the annopack release, set at build time with
// -ldflags "-X github.com/mesh-intelligence/annopack/internal/cli.Version=...".
var Version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the annopack version",
		Args:  cobra.NoArgs,
		// Runs without config or storage.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "annopack v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
