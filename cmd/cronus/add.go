package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a scheduled job",
	}
	cmd.AddCommand(addCommandCmd())
	cmd.AddCommand(addRhaiCmd())
	cmd.AddCommand(addRhaiFileCmd())
	return cmd
}

func addCommandCmd() *cobra.Command {
	var cronExpr string
	cmd := &cobra.Command{
		Use:   "cmd [path] [args...]",
		Short: "Add a job that spawns a command",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			submitAdd(cronExpr, wire.NewCommandJob(args[0], args[1:]))
		},
	}
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression (required)")
	cmd.MarkFlagRequired("cron")
	return cmd
}

func addRhaiCmd() *cobra.Command {
	var cronExpr string
	cmd := &cobra.Command{
		Use:   "rhai [source]",
		Short: "Add a job that runs an inline script",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			submitAdd(cronExpr, wire.NewScriptJob(args[0]))
		},
	}
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression (required)")
	cmd.MarkFlagRequired("cron")
	return cmd
}

func addRhaiFileCmd() *cobra.Command {
	var cronExpr string
	cmd := &cobra.Command{
		Use:   "rhai-file [path]",
		Short: "Add a job that runs a script loaded from disk on each firing",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			submitAdd(cronExpr, wire.NewScriptFileJob(args[0]))
		},
	}
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression (required)")
	cmd.MarkFlagRequired("cron")
	return cmd
}

func submitAdd(cronExpr string, j wire.Job) {
	c, ok := dialOrNotRunning()
	if !ok {
		fail(fmt.Errorf("daemon not running"))
	}
	defer c.Close()

	id, err := c.AddJob(cronExpr, j)
	if err != nil {
		fail(err)
	}
	printJSON(map[string]string{"status": "added", "id": id})
}
