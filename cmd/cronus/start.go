package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/cronus/internal/rundaemon"
)

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the daemon detached from this terminal",
		Run: func(cmd *cobra.Command, args []string) {
			if err := rundaemon.Spawn(svcName, svcPath); err != nil {
				fail(fmt.Errorf("start: %w", err))
			}
			printJSON(map[string]string{"status": "started"})
		},
	}
}
