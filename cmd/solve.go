package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"voltmesh/mend/internal/pipeline"
)

var (
	solveOutput string
	solveOpts   string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Sanitize, prepare, and solve the network, then export the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := DiscoverNetwork()
		if err != nil {
			return err
		}
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		if solveOutput == "" {
			return fmt.Errorf("-o/--output is required")
		}

		log, closer, err := BuildLogger(cfg)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		result, err := pipeline.Run(pipeline.RunConfig{
			NetworkPath: path,
			OutputPath:  solveOutput,
			Config:      cfg,
			Opts:        solveOpts,
			Log:         log,
		})
		if err != nil {
			return err
		}

		fmt.Printf("run %s finished in %s\n", result.RunID, result.Elapsed.Round(time.Millisecond))
		fmt.Printf("  generators: %d -> %d\n", result.GeneratorsBefore, result.GeneratorsAfter)
		fmt.Printf("  loads:      %d -> %d\n", result.LoadsBefore, result.LoadsAfter)
		fmt.Printf("  objective:  %.2f\n", result.Objective)
		fmt.Printf("  peak heap:  %.1f MB\n", float64(result.Peak.HeapBytes)/(1<<20))
		return nil
	},
}

func init() {
	solveCmd.Flags().StringVarP(&solveOutput, "output", "o", "", "Path for the solved network file")
	solveCmd.Flags().StringVar(&solveOpts, "opts", "", "Hyphen-delimited solve options (overrides solving.options)")
	rootCmd.AddCommand(solveCmd)
}
