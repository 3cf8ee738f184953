package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schedulator/pkg/pipeline"
)

// renderOpts holds flags for the render command.
type renderOpts struct {
	input    string
	formats  string
	output   string
	detailed bool
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw the task graph with the critical path highlighted",
		Long: `Render the dependency graph of a task file to DOT, SVG or PNG.

Tasks on the critical path and the edges between them are drawn in red.
Tasks of the same rank are aligned in one column. Diagrams are cached by
graph content, so re-rendering an unchanged file is instant.`,
		Example: `  # SVG next to the input
  schedulator render plan.txt

  # Several formats with timing detail on every node
  schedulator render plan.txt -f svg,png,dot --detailed -o out/plan`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input format: text, toml, json, yaml (default: from extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, png, dot, json, csv (comma-separated, default: svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path prefix (default: input path without extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ES/EF/LS/LF and slack on each node")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	popts := c.pipelineOptions(pipeline.Options{
		Input:    opts.input,
		Formats:  parseFormats(opts.formats),
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
	})
	if err := popts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	res, err := c.readAndAnalyze(ctx, runner, path, popts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}

	prefix := outputPrefix(path, opts.output)
	written := make([]string, 0, len(popts.Formats))
	hits := make(map[string]bool, len(popts.Formats))
	for _, format := range popts.Formats {
		spinner.SetMessage("Rendering " + format + "...")
		data, hit, err := runner.RenderWithCacheInfo(ctx, res, format, popts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		out := prefix + "." + format
		if err := writeFile(out, data); err != nil {
			spinner.StopWithError("Write failed")
			return err
		}
		written = append(written, out)
		hits[out] = hit
	}

	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d file(s), duration %d", len(written), res.Schedule.Duration))
	printStats(res.Stats.TaskCount, res.Stats.EdgeCount, res.Stats.Levels)
	for _, out := range written {
		printFile(out, hits[out])
	}
	return nil
}

// outputPrefix returns the path prefix for rendered files.
func outputPrefix(input, output string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return "schedule"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
