package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/idjson/internal/version"
)

// NewVersionCmd returns the command that prints the build version.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}
