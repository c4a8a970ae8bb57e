package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"typereflect/driver"
)

func watchCmd() *cobra.Command {
	var (
		flags    pipelineFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [patterns...]",
		Short: "Rebuild the schema whenever sources change",
		Long: `Watch runs the pipeline once, then watches the source directory and
reruns it after changes settle. Hidden directories, vendor, node_modules,
testdata and _test.go files are ignored, as are the pipeline's own outputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("debounce") {
				cfg.Watch.Debounce = driver.Duration(debounce)
			}

			if err := flags.apply(cmd, cfg, args); err != nil {
				return err
			}

			if cfg.Output == "" && cfg.Store == "" {
				return fmt.Errorf("watch needs an output file or a store")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := driver.NewPipeline(cfg, newLogger())

			report, err := p.Run(ctx)
			if err != nil {
				return fmt.Errorf("initial build failed: %w", err)
			}

			printDiagnostics(report)
			printSummary(report)

			w, err := p.Watch(func(r *driver.Report) {
				printDiagnostics(r)
				printSummary(r)
			}, driver.WithOnError(func(err error) {
				fmt.Fprintf(os.Stderr, "[%s] error: %v\n", time.Now().Format("15:04:05"), err)
			}))
			if err != nil {
				return err
			}

			fmt.Printf("watching %s (Ctrl+C to stop)\n", cfg.Dir)

			return w.Run(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", driver.DefaultDebounce, "delay before rebuilding after a change")

	return cmd
}
