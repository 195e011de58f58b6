package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"voltmesh/mend/internal/config"
	"voltmesh/mend/internal/logging"
)

var (
	networkPath string
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "mend",
	Short: "Power-system network repair and solving",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&networkPath, "network", "", "Path to the .network.db file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML configuration")
}

// DiscoverNetwork finds the network file using priority: env > flag > walk-up
func DiscoverNetwork() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("MEND_NETWORK"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if networkPath != "" {
		if _, err := os.Stat(networkPath); err == nil {
			return networkPath, nil
		}
		return "", fmt.Errorf("network file not found at --network path: %s", networkPath)
	}

	// 3. Walk up from CWD looking for a *.network.db
	dir, err := os.Getwd()
	if err == nil {
		for {
			matches, _ := filepath.Glob(filepath.Join(dir, "*.network.db"))
			if len(matches) == 1 {
				return matches[0], nil
			}
			if len(matches) > 1 {
				return "", fmt.Errorf("multiple network files in %s; use --network", dir)
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return "", fmt.Errorf("no network file found (set MEND_NETWORK, use --network, or run from a directory containing a *.network.db)")
}

// LoadConfig reads the configuration named by --config
func LoadConfig() (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	return config.Load(configPath)
}

// BuildLogger creates the process logger from the configuration. The second
// return value, when non-nil, must be closed by the caller.
func BuildLogger(cfg *config.Config) (logging.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.LoggingLevel)
	if cfg.LogFile == "" {
		return logging.New(os.Stderr, level), nil, nil
	}
	return logging.OpenFile(cfg.LogFile, level)
}
