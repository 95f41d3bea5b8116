package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tourforge/tourforge"
	"github.com/tourforge/tourforge/internal/adapters/file"
	"github.com/tourforge/tourforge/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate <export.json>",
	Short: "Check a tree export for structural problems",
	Long: `Loads an exported decision tree and reports connectivity problems:
missing root, unreachable nodes, and steps with no path back to the start.
Exits non-zero when the tree has errors; warnings alone pass.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		export, err := file.LoadExport(args[0])
		if err != nil {
			fmt.Printf("Error loading export: %v\n", err)
			os.Exit(1)
		}

		graph := &domain.Graph{Nodes: export.Nodes, Edges: export.Edges}
		result := tourforge.New(graph).Validate()

		for _, msg := range result.Errors {
			fmt.Printf("error: %s\n", msg)
		}
		for _, msg := range result.Warnings {
			fmt.Printf("warning: %s\n", msg)
		}

		if !result.IsValid {
			os.Exit(1)
		}
		if result.Message != "" {
			fmt.Println(result.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
