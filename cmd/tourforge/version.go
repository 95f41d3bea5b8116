package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tourforge/tourforge"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tourforge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tourforge version %s\n", strings.TrimSpace(tourforge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
