package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X .../cli.Version=...".
var Version = "dev"

func newVersionCmd(streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tunegen version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(streams.Stdout, "tunegen "+Version)
			return err
		},
	}
}
