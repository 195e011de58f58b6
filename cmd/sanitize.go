package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltmesh/mend/internal/pipeline"
)

var sanitizeOutput string

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Run the repair passes and write the cleaned network",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := DiscoverNetwork()
		if err != nil {
			return err
		}
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}

		log, closer, err := BuildLogger(cfg)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		n, err := pipeline.SanitizeOnly(pipeline.RunConfig{
			NetworkPath: path,
			OutputPath:  sanitizeOutput,
			Config:      cfg,
			Log:         log,
		})
		if err != nil {
			return err
		}

		s := n.ComputeStats()
		fmt.Printf("sanitized network: %d buses, %d generators, %d loads, %d lines, %d links\n",
			s.Buses, s.Generators, s.Loads, s.Lines, s.Links)
		return nil
	},
}

func init() {
	sanitizeCmd.Flags().StringVarP(&sanitizeOutput, "output", "o", "", "Write to this path instead of in place")
	rootCmd.AddCommand(sanitizeCmd)
}
