package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"typereflect/store"
)

const defaultStore = ".typereflect.db"

func storeCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Query schemas saved in SQLite",
	}

	cmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "database path (default: the configured store, else "+defaultStore+")")

	open := func(cmd *cobra.Command) (*store.DB, error) {
		path := dbPath
		if path == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return nil, err
			}

			path = cfg.Store
		}

		if path == "" {
			path = defaultStore
		}

		return store.Open(path)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			infos, err := db.ListSchemas()
			if err != nil {
				return err
			}

			if len(infos) == 0 {
				fmt.Println("no schemas stored")
				return nil
			}

			for _, info := range infos {
				fmt.Printf("%-24s %5d types  %s\n", info.Name, info.Types, info.CreatedAt.Format("2006-01-02 15:04:05"))
			}

			return nil
		},
	})

	cmd.AddCommand(storeShowCmd(open))

	cmd.AddCommand(&cobra.Command{
		Use:   "find <pattern>",
		Short: "Find stored types by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.FindTypes(args[0])
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Printf("no types match %q\n", args[0])
				return nil
			}

			for _, r := range rows {
				fmt.Printf("%-16s %-40s %s\n", r.Schema, r.FQN, r.Kind)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteSchema(args[0]); err != nil {
				return err
			}

			fmt.Printf("deleted %s\n", args[0])

			return nil
		},
	})

	return cmd
}

func storeShowCmd(open func(*cobra.Command) (*store.DB, error)) *cobra.Command {
	var (
		all      bool
		typeName string
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			s, err := db.LoadSchema(args[0])
			if err != nil {
				return err
			}

			if typeName == "" {
				writeList(os.Stdout, s, all)
				return nil
			}

			t, err := findType(s, typeName)
			if err != nil {
				return err
			}

			writeType(os.Stdout, t, 0)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every entry, not only exports")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "print the members of one type")

	return cmd
}
