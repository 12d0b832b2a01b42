package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inkwell-tools/inkwell/instrument"
)

type instrumentOptions struct {
	output string
}

func newInstrumentCommand(root *rootOptions) *cobra.Command {
	opts := &instrumentOptions{}

	cmd := &cobra.Command{
		Use:     "instrument FILE",
		Aliases: []string{"i"},
		Short:   "Instrument your contract with ink tracking probes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstrument(cmd, args[0], opts, root)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "instrumented_contract.rs",
		"Output path for the instrumented contract")
	return cmd
}

func runInstrument(cmd *cobra.Command, file string, opts *instrumentOptions, root *rootOptions) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("source file not found: %s", file)
	}

	ins := instrument.New(
		instrument.WithLogger(newLogger(root)),
		instrument.WithFilename(filepath.Base(file)),
	)
	instrumented, err := ins.Instrument(cmd.Context(), string(source))
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, []byte(instrumented), 0o644); err != nil {
		return err
	}

	printInstrumentSummary(cmd, ins.Operations(), opts.output, root.noColor)
	return nil
}

func printInstrumentSummary(cmd *cobra.Command, ops []instrument.InstrumentedOperation, output string, noColor bool) {
	out := cmd.OutOrStdout()
	rule := strings.Repeat("=", 45)

	heading := "Instrumentation Complete"
	if !noColor {
		heading = color.New(color.FgHiGreen, color.Bold).Sprint(heading)
	}
	fmt.Fprintf(out, "\n%s\n  %s\n%s\n", rule, heading, rule)
	fmt.Fprintf(out, "\nTotal probes injected: %d\n", len(ops))

	counts := map[string]int{}
	for _, op := range ops {
		counts[op.OperationType]++
	}
	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, typ)
	}
	sort.Strings(types)

	fmt.Fprintln(out, "\nBreakdown by operation type:")
	for _, typ := range types {
		fmt.Fprintf(out, "  - %s: %d\n", typ, counts[typ])
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "   cargo build --release --target wasm32-unknown-unknown --features ink-profiling")
	fmt.Fprintf(out, "\nInstrumented contract saved to: %s\n", output)
}
