package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [jobId]",
		Short: "Delete a scheduled job",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c, ok := dialOrNotRunning()
			if !ok {
				fail(fmt.Errorf("daemon not running"))
			}
			defer c.Close()
			if err := c.DeleteJob(args[0]); err != nil {
				fail(err)
			}
			printJSON(map[string]string{"status": "deleted", "id": args[0]})
		},
	}
}
