// Command clustermapctl hosts the clustering engine: either behind the
// HTTP API (serve) or against a GeoJSON fixture for local exploration
// (demo).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markerforest/clustermap/cmd/clustermapctl/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clustermapctl",
		Short: "clustermapctl hosts the hierarchical point-clustering engine",
		Long: `clustermapctl hosts the clustering engine.

Commands:
  serve   Run the HTTP API over a fresh engine
  demo    Load a GeoJSON point set and print the render frontier`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a clustermap config file")

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDemoCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
