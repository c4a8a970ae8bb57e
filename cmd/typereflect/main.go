// Command typereflect extracts a structural schema of a module's exported
// declarations, persists it and answers queries against it.
//
// Commands:
//   - build: run the configured pipeline once
//   - watch: rerun the pipeline whenever sources change
//   - inspect: print the types of a persisted schema
//   - assignable: check structural assignability of two types
//   - store: list, show, find and delete schemas kept in SQLite
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"typereflect/driver"
)

const defaultConfig = "typereflect.yaml"

var (
	configPath string
	verbosity  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "typereflect",
		Short: "Extract, persist and query structural type schemas",
		Long: `typereflect reads Go packages or YAML declaration descriptors, builds a
graph of their types, fields, methods and functions, and writes it as a flat
JSON, YAML or MessagePack schema that can be loaded back with every
reference resolved.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "project file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(assignableCmd())
	rootCmd.AddCommand(storeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the stderr logger for the current verbosity.
func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(os.Stderr, prefix, args)
			return
		}

		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: verbosity})
}

// loadConfig reads the project file. A missing default file yields the
// default configuration; a missing explicit file is an error.
func loadConfig(cmd *cobra.Command) (*driver.Config, error) {
	cfg, err := driver.LoadConfig(configPath)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return driver.ParseConfig(nil)
	}

	return nil, err
}
