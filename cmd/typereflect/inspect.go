package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"typereflect/schema"
)

func inspectCmd() *cobra.Command {
	var (
		all      bool
		typeName string
		paths    int
	)

	cmd := &cobra.Command{
		Use:   "inspect <schema-file>",
		Short: "Print the types of a persisted schema",
		Long: `Inspect loads a JSON, YAML or MessagePack schema (the format follows the
file extension), resolves it, and lists its exported types. With --type it
prints the members of one type, looked up by key, key suffix or name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}

			if missing := schema.Unresolved(s); len(missing) > 0 {
				fmt.Fprintf(os.Stderr, "warning: %d unresolved references: %v\n", len(missing), missing)
			}

			if typeName == "" {
				writeList(os.Stdout, s, all)
				return nil
			}

			t, err := findType(s, typeName)
			if err != nil {
				return err
			}

			writeType(os.Stdout, t, paths)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every entry, not only exports")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "print the members of one type")
	cmd.Flags().IntVar(&paths, "paths", 0, "also print nested field paths up to this depth")

	return cmd
}
