package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"typereflect/driver"
	"typereflect/schema"
)

// pipelineFlags are the config overrides shared by build and watch.
type pipelineFlags struct {
	frontend    string
	dir         string
	name        string
	output      string
	format      string
	relativeTo  string
	store       string
	exportsOnly bool
	workers     int
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.frontend, "frontend", "", "front-end: go or decl")
	cmd.Flags().StringVar(&f.dir, "dir", "", "source directory")
	cmd.Flags().StringVar(&f.name, "name", "", "schema name used in the store")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout when empty and no store is set)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: json, yaml or msgpack")
	cmd.Flags().StringVar(&f.relativeTo, "relative-to", "", "path prefix stripped from type names")
	cmd.Flags().StringVar(&f.store, "store", "", "SQLite database to save the schema in")
	cmd.Flags().BoolVar(&f.exportsOnly, "exports-only", false, "keep only exported declarations as roots")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent package builds")
}

// apply overrides cfg with the flags the user set and the positional
// patterns.
func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *driver.Config, patterns []string) error {
	set := cmd.Flags().Changed

	if set("frontend") {
		cfg.Frontend = f.frontend
	}
	if set("dir") {
		cfg.Dir = f.dir
	}
	if set("name") {
		cfg.Name = f.name
	}
	if set("output") {
		cfg.Output = f.output
		if !set("format") {
			cfg.Format = string(schema.FormatFromPath(f.output))
		}
	}
	if set("format") {
		cfg.Format = f.format
	}
	if set("relative-to") {
		cfg.RelativeTo = f.relativeTo
	}
	if set("store") {
		cfg.Store = f.store
	}
	if set("exports-only") {
		cfg.ExportsOnly = f.exportsOnly
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if len(patterns) > 0 {
		cfg.Patterns = patterns
	}

	return cfg.Validate()
}

func buildCmd() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "build [patterns...]",
		Short: "Build the schema of the configured sources",
		Long: `Build loads the sources matched by the patterns (Go package patterns for
the go front-end, descriptor globs for the decl front-end), builds and merges
their schemas, and writes the flat schema to the output file and/or store.

Examples:
  typereflect build ./...                        # print the JSON schema
  typereflect build ./models -o schema.yaml      # write YAML
  typereflect build --frontend decl 'defs/*.yaml' --store schemas.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := flags.apply(cmd, cfg, args); err != nil {
				return err
			}

			report, err := driver.NewPipeline(cfg, newLogger()).Run(cmd.Context())
			if err != nil {
				return err
			}

			printDiagnostics(report)

			if cfg.Output == "" && cfg.Store == "" {
				data, err := schema.Encode(report.Schema, cfg.OutputFormat())
				if err != nil {
					return err
				}

				_, err = os.Stdout.Write(data)

				return err
			}

			printSummary(report)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func printDiagnostics(report *driver.Report) {
	for _, d := range report.Diagnostics.All() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func printSummary(report *driver.Report) {
	fmt.Printf("[%s] %d types from %d units (%d diagnostics) in %v\n",
		time.Now().Format("15:04:05"), report.Schema.Len(), len(report.Units),
		report.Diagnostics.Len(), report.Elapsed.Round(time.Millisecond))

	if report.Output != "" {
		fmt.Printf("  written to %s\n", report.Output)
	}

	if report.Stored != "" {
		fmt.Printf("  stored as %s\n", report.Stored)
	}
}
