package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/agent"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List available agents",
	Long:  `Shows every agent that can be passed to --agent.`,
	Args:  cobra.NoArgs,
	Run:   runAgents,
}

func runAgents(_ *cobra.Command, _ []string) {
	agents := agent.List()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, a := range agents {
		maxNameLen = max(maxNameLen, len(a.Name))
	}

	fmt.Println("Available agents:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")
	for _, a := range agents {
		fmt.Printf("  %-*s  %s\n", maxNameLen, a.Name, a.Description)
	}

	fmt.Println()
	fmt.Println("Run 'twenty48 play --agent <name>' to watch one play.")
}
