package cli

import (
	"github.com/specialistvlad/nanopost/internal/app"
	"github.com/spf13/cobra"
)

func newMergeCommand(c *command) *cobra.Command {
	var cfg app.MergeConfig

	cmd := &cobra.Command{
		Use:   "merge [flags] REPORT.yaml...",
		Short: "Sum cutflow reports bin by bin",
		Args:  minArgs(1, "report file(s)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Inputs = args
			a, err := c.newApp()
			if err != nil {
				return err
			}
			_, err = a.Merge(cmd.Context(), cfg)
			return err
		},
	}
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "Merged report path (default: standard output)")
	cmd.Flags().StringVar(&cfg.ROOTOutput, "root", "", "Also write the merged histogram to this ROOT file")
	return cmd
}
