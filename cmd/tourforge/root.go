package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tourforge",
	Short: "Tourforge is a decision-tree driven guided tour engine",
	Long: `Tourforge serves and plays interactive guided tours built as decision
trees: steps connected by edges, with conditional nodes routing on the
answers users give along the way.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}
