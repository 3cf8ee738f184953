package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/schedulator/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a task file for errors",
		Long: `Check that a task file parses, every predecessor is declared, no task is
defined twice, weights are non-negative integers, and the dependencies form
no cycle. Exits non-zero on the first problem found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyzeFile(cmd.Context(), args[0], c.pipelineOptions(pipeline.Options{Input: input}))
			if err != nil {
				printError("%s is invalid", args[0])
				return err
			}
			printSuccess("%s is valid", args[0])
			printStats(res.Stats.TaskCount, res.Stats.EdgeCount, res.Stats.Levels)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input format: text, toml, json, yaml (default: from extension)")
	return cmd
}
