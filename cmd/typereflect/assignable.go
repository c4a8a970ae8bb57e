package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typereflect/schema"
)

func assignableCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "assignable <schema-file> <src> <dest>",
		Short: "Check whether src is structurally assignable to dest",
		Long: `Assignable loads a persisted schema and reports whether a value of type
src may be used where dest is expected, with the rule that decided.
Verdicts: identical, structural, incomplete (not decidable by the shallow
check) and incompatible.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}

			src, err := findType(s, args[1])
			if err != nil {
				return err
			}

			dest, err := findType(s, args[2])
			if err != nil {
				return err
			}

			res := schema.Explain(src, dest)

			fmt.Printf("%s -> %s: %s\n", src.FQN(), dest.FQN(), res.Assignability)
			if res.Reason != "" {
				fmt.Printf("  %s\n", res.Reason)
			}
			if res.Provisional {
				fmt.Println("  note: decided by the struct-target member rule")
			}

			if strict && !res.Assignable() {
				return fmt.Errorf("%s is not assignable to %s", src.FQN(), dest.FQN())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when not assignable")

	return cmd
}
