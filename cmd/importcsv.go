package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltmesh/mend/internal/store"
)

var importOutput string

var importCmd = &cobra.Command{
	Use:   "import <csv-dir>",
	Short: "Build a network file from a directory of per-table CSV dumps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if importOutput == "" {
			return fmt.Errorf("-o/--output is required")
		}

		n, err := store.ImportCSVDir(args[0])
		if err != nil {
			return err
		}
		if err := store.SaveTo(n, importOutput); err != nil {
			return err
		}

		s := n.ComputeStats()
		fmt.Printf("imported %d buses, %d generators, %d loads, %d lines, %d links -> %s\n",
			s.Buses, s.Generators, s.Loads, s.Lines, s.Links, importOutput)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Path for the new network file")
	rootCmd.AddCommand(importCmd)
}
