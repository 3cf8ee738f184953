package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schedulator/pkg/errors"
	schedio "github.com/matzehuels/schedulator/pkg/io"
	"github.com/matzehuels/schedulator/pkg/pipeline"
)

// Report formats of the schedule command.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

// scheduleOpts holds flags for the schedule command.
type scheduleOpts struct {
	input     string
	output    string
	matrix    bool
	allPaths  bool
	parallel  int
	pathLimit int
}

// scheduleCommand creates the schedule command.
func (c *CLI) scheduleCommand() *cobra.Command {
	var opts scheduleOpts

	cmd := &cobra.Command{
		Use:   "schedule [file]",
		Short: "Compute the critical path schedule of a task file",
		Long: `Compute earliest and latest start and finish times, slack, and the critical
path of a task file.

Use "-" to read from standard input. Without a file argument an interactive
picker lists the task files in the configured data_dir.`,
		Example: `  # Print the schedule table
  schedulator schedule plan.txt

  # Include the adjacency matrix and every critical path
  schedulator schedule plan.txt --matrix --all-paths

  # Machine-readable output
  schedulator schedule plan.yaml -o json
  cat plan.txt | schedulator schedule - -o csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSchedule(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input format: text, toml, json, yaml (default: from extension)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "report format: table, json, csv")
	cmd.Flags().BoolVar(&opts.matrix, "matrix", false, "show the weighted adjacency matrix")
	cmd.Flags().BoolVar(&opts.allPaths, "all-paths", false, "list every critical path")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "analyze each rank with this many workers")
	cmd.Flags().IntVar(&opts.pathLimit, "path-limit", 0, "maximum critical paths to enumerate")

	return cmd
}

func (c *CLI) runSchedule(ctx context.Context, args []string, opts scheduleOpts) error {
	switch opts.output {
	case outputTable, outputJSON, outputCSV:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown output %q (want table, json or csv)", opts.output)
	}

	path, err := c.resolveInput(args)
	if err != nil || path == "" {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	res, err := c.analyzeFile(ctx, path, c.pipelineOptions(pipeline.Options{
		Input:     opts.input,
		Parallel:  opts.parallel,
		PathLimit: opts.pathLimit,
	}))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scheduled %d tasks", res.Stats.TaskCount))

	switch opts.output {
	case outputJSON:
		return schedio.WriteJSON(res.Schedule, res.Paths, c.Out)
	case outputCSV:
		return schedio.WriteCSV(res.Schedule, c.Out)
	}
	writeReport(c.Out, res, reportOptions{
		Style:    c.cfg.Output.TableStyle,
		Matrix:   opts.matrix || c.cfg.Output.ShowMatrix,
		AllPaths: opts.allPaths,
	})
	return nil
}

// resolveInput returns the task file named by args, "-" for stdin, or a file
// chosen interactively from the data directory. An empty path with a nil
// error means the user quit the picker.
func (c *CLI) resolveInput(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if c.cfg.DataDir == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no task file given and data_dir is not configured")
	}
	return pickFile(c.cfg.DataDir)
}

// analyzeFile reads path (or stdin for "-") and runs the analysis.
// It uses a cacheless runner since no diagrams are produced.
func (c *CLI) analyzeFile(ctx context.Context, path string, opts pipeline.Options) (*pipeline.Result, error) {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()
	return c.readAndAnalyze(ctx, runner, path, opts)
}

func (c *CLI) readAndAnalyze(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*pipeline.Result, error) {
	if path == "-" {
		records, err := pipeline.ReadBody(c.In, opts.Input)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return runner.Analyze(ctx, records, opts)
	}

	opts.Path = path
	records, err := runner.Read(ctx, opts)
	if err != nil {
		return nil, err
	}
	return runner.Analyze(ctx, records, opts)
}
