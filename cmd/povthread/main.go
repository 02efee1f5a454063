package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"povthread/internal/export"
	"povthread/internal/filters/avgrow"
	"povthread/internal/logger"
	"povthread/internal/pipeline"
)

const (
	appName    = "povthread"
	appVersion = "1.0.0"
)

type options struct {
	input      string
	output     string
	thresholdX int
	thresholdY int
	wrapAround bool
	keepAlpha  bool
	maxDim     int
	noFilter   bool
	logLevel   string
}

func main() {
	opts := &options{}
	var log logger.Logger

	root := &cobra.Command{
		Use:     appName,
		Short:   "Adaptive run-length averaging filter and POV-Ray thread exporter",
		Long: appName + ` flattens runs of visually similar pixels to their average
color while keeping high-contrast edges intact, and can rebuild the result
as a POV-Ray textile scene (linen weave or cross stitch).`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logger.NewConsoleLogger(logger.ParseLevel(opts.logLevel))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.input, "input", "i", "", "source image (png, ppm, pgm, pbm)")
	pf.StringVarP(&opts.output, "output", "o", "", "output file")
	pf.IntVarP(&opts.thresholdX, "threshold-x", "x", 16, "row pass threshold, 8-bit units")
	pf.IntVarP(&opts.thresholdY, "threshold-y", "y", 8, "column pass threshold, 8-bit units")
	pf.BoolVar(&opts.wrapAround, "wrap", false, "wrap-around edges instead of clamping")
	pf.BoolVar(&opts.keepAlpha, "keep-alpha", false, "keep the source alpha channel verbatim")
	pf.IntVar(&opts.maxDim, "max-dim", 0, "downscale sources larger than this (0 = off)")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		filterCommand(opts, &log),
		exportCommand(opts, &log, "linen", "write a linen weave POV-Ray scene"),
		exportCommand(opts, &log, "stitch", "write a cross-stitch POV-Ray scene"),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func filterCommand(opts *options, log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "filter an image and save the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := loadAndFilter(opts, *log, false)
			if err != nil {
				return err
			}
			if opts.output == "" {
				return fmt.Errorf("an output file is required (-o)")
			}
			if err := coord.SaveImage(opts.output, coord.CurrentImage()); err != nil {
				return err
			}
			logStageDurations(*log, coord)
			return nil
		},
	}
}

func exportCommand(opts *options, log *logger.Logger, style, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   style,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := loadAndFilter(opts, *log, opts.noFilter)
			if err != nil {
				return err
			}

			var out io.Writer = os.Stdout
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			exporter := export.NewExporter(*log)
			switch style {
			case "linen":
				err = exporter.Linen(out, coord.CurrentImage())
			default:
				err = exporter.Stitch(out, coord.CurrentImage())
			}
			if err != nil {
				return err
			}
			logStageDurations(*log, coord)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.noFilter, "no-filter", false, "export the source image without filtering")
	return cmd
}

func loadAndFilter(opts *options, log logger.Logger, skipFilter bool) (*pipeline.Coordinator, error) {
	if opts.input == "" {
		return nil, fmt.Errorf("an input image is required (-i)")
	}

	coord := pipeline.NewCoordinator(pipeline.Options{
		Logger: log,
		MaxDim: opts.maxDim,
	})

	if _, err := coord.LoadImage(opts.input); err != nil {
		return nil, err
	}
	if skipFilter {
		return coord, nil
	}

	params := map[string]interface{}{
		"threshold_x": opts.thresholdX,
		"threshold_y": opts.thresholdY,
		"wrap_around": opts.wrapAround,
		"keep_alpha":  opts.keepAlpha,
	}
	if _, err := coord.ProcessImage(avgrow.NewProcessor().GetName(), params); err != nil {
		return nil, err
	}
	return coord, nil
}

func logStageDurations(log logger.Logger, coord *pipeline.Coordinator) {
	fields := make(map[string]interface{})
	for stage, ms := range coord.StageDurations() {
		fields[stage+"_ms"] = ms
	}
	log.Debug("Main", "pipeline finished", fields)
}
