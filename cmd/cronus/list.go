package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

func listCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all scheduled jobs",
		Run: func(cmd *cobra.Command, args []string) {
			c, ok := dialOrNotRunning()
			if !ok {
				fail(fmt.Errorf("daemon not running"))
			}
			defer c.Close()
			jobs, err := c.ListJobs()
			if err != nil {
				fail(err)
			}
			if jsonOutput {
				printJSON(jobs)
				return
			}
			printJobTable(jobs)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", true, "output as JSON (--json=false prints a table)")
	return cmd
}

func printJobTable(jobs []wire.JobInfo) {
	if len(jobs) == 0 {
		fmt.Println("No jobs scheduled.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCRON\tKIND\tLAST RUN\tNEXT RUN\n")
	for _, j := range jobs {
		last := "never"
		if j.LastRun != nil {
			last = time.Unix(int64(*j.LastRun), 0).Format(time.DateTime)
		}
		next := "-"
		if j.NextRun != nil {
			next = time.Unix(int64(*j.NextRun), 0).Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", j.ID, j.Cron, j.Job.Kind, last, next)
	}
	tw.Flush()
}
