package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/deckreader"
	"github.com/tsawler/deckreader/export"
	"github.com/tsawler/deckreader/extract"
	"github.com/tsawler/deckreader/store"
)

var (
	extractConfig      string
	extractAnalyze     bool
	extractByName      bool
	extractSkipFooters bool
	extractFormat      string
	extractOutput      string
	extractSave        bool
	extractWatch       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [deck.pptx]",
	Short: "Extract slides in reading order",
	Long: `Extracts every visible slide of a deck, ordered by section and slide
number. Slides that cannot be read are skipped with a warning.

With --analyze each slide is rendered and inspected for pictures and
columns before its text is ordered. With --watch the deck is extracted again
whenever it changes; a change during a run cancels that run.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVarP(&extractConfig, "config", "c", "", "YAML or TOML settings file")
	f.BoolVar(&extractAnalyze, "analyze", false, "refine reading order with visual analysis")
	f.BoolVar(&extractByName, "by-name", false, "locate slides by frame name instead of sections")
	f.BoolVar(&extractSkipFooters, "skip-footers", false, "leave out footer, date and slide-number placeholders")
	f.StringVarP(&extractFormat, "format", "f", "markdown", "output format: markdown, text, json, jsonl, csv, html")
	f.StringVarP(&extractOutput, "output", "o", "", "write output to a file instead of stdout")
	f.BoolVar(&extractSave, "save", false, "record the run in the state database")
	f.BoolVarP(&extractWatch, "watch", "w", false, "extract again when the deck changes")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := export.ParseFormat(extractFormat)
	if err != nil {
		return err
	}

	var st *store.Store
	if extractSave || storePath != "" {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
	}

	once := func(ctx context.Context) error {
		return extractOnce(ctx, cmd, path, format, st)
	}

	if extractWatch {
		return watch(cmd.Context(), path, once)
	}
	return once(cmd.Context())
}

// newExtractor builds the configured extractor for path
func newExtractor(path string, st *store.Store) *deckreader.Extractor {
	ex := deckreader.Open(path).WithLogger(logger)
	if extractConfig != "" {
		ex = ex.WithConfigFile(extractConfig)
	}
	if extractAnalyze {
		ex = ex.Analyze()
	}
	if extractByName {
		ex = ex.ByName()
	}
	if extractSkipFooters {
		ex = ex.SkipFooters()
	}
	if st != nil {
		ex = ex.WithPrompts(st.Prompts())
	}
	return ex
}

func extractOnce(ctx context.Context, cmd *cobra.Command, path string, format export.Format, st *store.Store) error {
	result, err := newExtractor(path, st).Run(ctx)
	if err != nil {
		var noSlides *extract.NoSlidesError
		if errors.As(err, &noSlides) {
			return fmt.Errorf("%s: %w", path, err)
		}
		return err
	}

	for _, w := range result.Warnings {
		cmd.PrintErrln("warning:", w.String())
	}
	if result.Prompt != "" {
		cmd.PrintErrln("prompt:", result.Prompt)
	}

	if extractSave && st != nil {
		if err := st.SaveRun(ctx, store.Run{ID: result.RunID, Source: path, Records: result.Records}); err != nil {
			logger.Warn("could not save run", "run", result.RunID, "err", err)
			cmd.PrintErrln("warning: run not saved:", err)
		}
	}

	return writeOutput(cmd, format, result)
}

func writeOutput(cmd *cobra.Command, format export.Format, result *extract.Result) error {
	exp := export.NewExporterWithConfig(export.ConfigFor(format))
	if extractOutput == "" {
		return exp.Export(result.Records, cmd.OutOrStdout())
	}

	if err := exp.ExportToFile(result.Records, extractOutput); err != nil {
		return err
	}
	cmd.PrintErrf("wrote %d slides to %s\n", len(result.Records), extractOutput)
	return nil
}
