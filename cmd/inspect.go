package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"voltmesh/mend/internal/store"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report table sizes, connectivity, and consistency findings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := DiscoverNetwork()
		if err != nil {
			return err
		}

		db, err := store.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Load()
		if err != nil {
			return fmt.Errorf("loading network: %w", err)
		}

		stats := n.ComputeStats()
		consistency := n.ConsistencyCheck()

		if inspectJSON {
			report := struct {
				Path        string `json:"path"`
				Stats       any    `json:"stats"`
				Consistency string `json:"consistency,omitempty"`
			}{Path: path, Stats: stats}
			if consistency != nil {
				report.Consistency = consistency.Error()
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("\n  Network: %s\n", path)
		fmt.Println("  ────────────────────────────────────────")
		fmt.Printf("  Buses: %d  Generators: %d  Loads: %d\n", stats.Buses, stats.Generators, stats.Loads)
		fmt.Printf("  Lines: %d  Links: %d  Storage: %d  Stores: %d\n",
			stats.Lines, stats.Links, stats.StorageUnits, stats.Stores)
		fmt.Printf("  Carriers: %d  Components: %d\n", stats.Carriers, stats.Components)
		fmt.Printf("  Capacity: %.1f MW generation, %.1f MW load\n",
			stats.TotalGeneration, stats.TotalLoad)
		if consistency != nil {
			fmt.Printf("\n  CONSISTENCY\n  %v\n", consistency)
		} else {
			fmt.Println("\n  Consistency: ok")
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(inspectCmd)
}
