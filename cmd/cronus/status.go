package main

import (
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is running",
		Run: func(cmd *cobra.Command, args []string) {
			c, ok := dialOrNotRunning()
			if !ok {
				printJSON(map[string]string{"status": "not_running"})
				return
			}
			defer c.Close()
			alive, err := c.Ping()
			if err != nil {
				fail(err)
			}
			if alive {
				printJSON(map[string]string{"status": "running"})
			} else {
				printJSON(map[string]string{"status": "not_running"})
			}
		},
	}
}
