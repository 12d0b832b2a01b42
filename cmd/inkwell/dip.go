package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/inkwell/analyzer"
	"github.com/inkwell-tools/inkwell/costmodel"
	"github.com/inkwell-tools/inkwell/reporter"
)

const (
	reportFile      = "ink-report.json"
	decorationsDir  = ".inkwell"
	decorationsFile = "decorations.json"
)

type dipOptions struct {
	function   string
	output     string
	costConfig string
}

func newDipCommand(root *rootOptions) *cobra.Command {
	opts := &dipOptions{}

	cmd := &cobra.Command{
		Use:     "dip FILE",
		Aliases: []string{"d"},
		Short:   "Dip into your contract and analyze ink consumption patterns",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDip(cmd, args[0], opts, root)
		},
	}

	cmd.Flags().StringVarP(&opts.function, "function", "f", "",
		"Target specific function for analysis")
	cmd.Flags().StringVarP(&opts.output, "output", "o", reporter.FormatCompact,
		"Output format: compact, detailed, json")
	cmd.Flags().StringVar(&opts.costConfig, "cost-config", "",
		"Path to a YAML cost model override file")
	return cmd
}

func runDip(cmd *cobra.Command, file string, opts *dipOptions, root *rootOptions) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("source file not found: %s", file)
	}

	costs := costmodel.Default()
	if opts.costConfig != "" {
		costs, err = costmodel.LoadFile(opts.costConfig)
		if err != nil {
			return err
		}
	}

	a := analyzer.New(
		analyzer.WithCostModel(costs),
		analyzer.WithLogger(newLogger(root)),
		analyzer.WithTargetFunction(opts.function),
		analyzer.WithFileLabel(filepath.Base(file)),
	)
	analysis, err := a.Analyze(cmd.Context(), string(source))
	if err != nil {
		var noEntry *analyzer.NoEntryPointsError
		if errors.As(err, &noEntry) {
			fmt.Fprintln(cmd.ErrOrStderr(), noEntry.FriendlyErrorMessage())
			return err
		}
		return err
	}

	r := reporter.New(cmd.OutOrStdout(),
		reporter.WithFormat(opts.output),
		reporter.WithColor(!root.noColor))
	if err := r.Print(analysis); err != nil {
		return err
	}

	if err := writeReports(file, analysis); err != nil {
		return err
	}

	if opts.output != reporter.FormatJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "\nReports saved:")
		fmt.Fprintln(cmd.OutOrStdout(), "   - "+reportFile)
		fmt.Fprintln(cmd.OutOrStdout(), "   - "+filepath.Join(decorationsDir, decorationsFile))
	}
	return nil
}

// writeReports persists the JSON report next to the working directory and
// the editor decorations under .inkwell/. Decorations cover the first
// analyzed function, matching what editor extensions consume.
func writeReports(file string, analysis *analyzer.ContractAnalysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(reportFile, data, 0o644); err != nil {
		return err
	}

	if len(analysis.Functions) == 0 {
		return nil
	}
	if err := os.MkdirAll(decorationsDir, 0o755); err != nil {
		return err
	}
	decorations := reporter.GenerateDecorations(filepath.Base(file), analysis.Functions[0])
	data, err = json.MarshalIndent(decorations, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(decorationsDir, decorationsFile), data, 0o644)
}
