package cli

import (
	"fmt"

	"github.com/specialistvlad/nanopost/internal/dataset"
	"github.com/spf13/cobra"
)

func newNameCommand(c *command) *cobra.Command {
	var kind, naming string

	cmd := &cobra.Command{
		Use:   "name [flags] DATASET...",
		Short: "Print the request name derived for each dataset",
		Args:  minArgs(1, "dataset identifier(s)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dataset.ParseKind(kind)
			if err != nil {
				return usageError(err)
			}
			style, err := dataset.ParseNameStyle(naming)
			if err != nil {
				return usageError(err)
			}
			for _, raw := range args {
				name, err := dataset.RequestName(raw, k, style)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.outW, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Dataset type: 'Data' or 'MC'")
	cmd.Flags().StringVar(&naming, "naming", "short", "Request naming style: 'short' or 'full'")
	return cmd
}
