package cli

import (
	"fmt"

	"github.com/specialistvlad/nanopost/internal/app"
	"github.com/specialistvlad/nanopost/internal/postproc"
	"github.com/spf13/cobra"
)

func newSkimCommand(c *command) *cobra.Command {
	var (
		cfg     app.SkimConfig
		perFile bool
	)

	cmd := &cobra.Command{
		Use:   "skim [flags] FILE.jsonl...",
		Short: "Apply the cutflow to local event files",
		Long: `Runs the cutflow accountant over JSON Lines event files as a single job.
Kept events are written as an "Events" tree to <outdir>/<name>_Skim.root, with a
JSON Lines copy beside it. The merged tree and the job cutflow histogram go to
<outdir>/<hadd-name>; per-file histograms are stored with each file's tree.`,
		Args: minArgs(1, "input file(s)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Inputs = args
			if cmd.Flags().Changed("per-file") {
				cfg.PerFile = &perFile
			}
			if err := cfg.Validate(); err != nil {
				return usageError(err)
			}
			a, err := c.newApp()
			if err != nil {
				return err
			}
			res, err := a.Skim(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			for _, fr := range res.Files {
				fmt.Fprintf(c.outW, "%s: %d/%d events kept -> %s\n", fr.Input, fr.Kept, fr.Processed, fr.ROOT)
			}
			for i, label := range res.Job.Labels {
				fmt.Fprintf(c.outW, "%3d  %-45s %g\n", i+1, label, res.Job.Values[i])
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&cfg.CutsPaths, "cuts", nil, "HCL file or directory with cut definitions (default: embedded NanoAOD cuts)")
	f.StringVar(&cfg.OutputDir, "outdir", ".", "Output directory")
	f.StringVar(&cfg.HaddName, "hadd-name", postproc.DefaultHaddName, "Name of the job-level ROOT output")
	f.StringVar(&cfg.Detection, "detection", "", "Simulation detection: 'sticky', 'per_file', 'data' or 'simulation'")
	f.StringVar(&cfg.CountMode, "count-mode", "", "Cut counters: 'raw' or 'weighted'")
	f.BoolVar(&perFile, "per-file", true, "Write a cutflow histogram for every input file")
	return cmd
}
