package cli

import (
	"fmt"

	"github.com/specialistvlad/nanopost/internal/app"
	"github.com/specialistvlad/nanopost/modules/crab"
	"github.com/spf13/cobra"
)

func newSubmitCommand(c *command) *cobra.Command {
	var cfg app.SubmitConfig

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one grid request per dataset in a list",
		Long: `Reads a dataset list (one identifier per line, '#' comments allowed) and
submits a post-processing request for each dataset. A failed submission is
logged and the batch continues with the next dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cfg.Params(); err != nil {
				return usageError(err)
			}
			a, err := c.newApp()
			if err != nil {
				return err
			}
			report, err := a.Submit(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.outW, "Submitted: %d, Failed: %d\n", len(report.Submitted), len(report.Failed))
			for _, o := range report.Failed {
				fmt.Fprintf(c.outW, "  FAILED %s (%s): %v\n", o.RequestName, o.Dataset, o.Err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.DatasetListFile, "datasetListFile", "f", "", "Text file containing list of datasets")
	f.StringVarP(&cfg.WorkArea, "workArea", "w", "", "Work area, e.g. HHbbtt/2024_MC")
	f.StringVarP(&cfg.OutputDir, "outputDir", "o", "", "Relative output folder, e.g. HHbbtt/2024_MC")
	f.StringVarP(&cfg.Type, "type", "t", "", "Dataset type: 'Data' or 'MC'")
	f.StringVarP(&cfg.Username, "username", "u", "", "Grid storage username")
	f.IntVarP(&cfg.UnitsPerJob, "unitsperjob", "n", 1, "Files per job (FileBased splitting)")
	f.StringVar(&cfg.Naming, "naming", "short", "Request naming style: 'short' or 'full'")
	f.StringVar(&cfg.Backend, "backend", app.DefaultBackend, "Submission backend: 'crab' or 'dryrun'")
	f.StringVar(&cfg.Command, "crab-command", crab.DefaultCommand, "CRAB client executable used by the crab backend")
	f.StringSliceVar(&cfg.ConfigPaths, "config", nil, "HCL file or directory with submission template overrides (repeatable)")
	return cmd
}
