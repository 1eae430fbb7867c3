package main

import (
	"github.com/spf13/cobra"
)

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Run: func(cmd *cobra.Command, args []string) {
			c, ok := dialOrNotRunning()
			if !ok {
				printJSON(map[string]string{"status": "not_running"})
				return
			}
			defer c.Close()
			if err := c.Stop(); err != nil {
				fail(err)
			}
			printJSON(map[string]string{"status": "stopped"})
		},
	}
}
