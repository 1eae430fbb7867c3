// Command cronus is the CLI and daemon entry point for the scheduled-task
// service: `cronus start` launches a detached daemon, and the remaining
// subcommands talk to it over the IPC control channel.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	svcName string
	svcPath string
)

func main() {
	root := rootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cronus",
		Short: "A user-level scheduled-task daemon",
	}
	cmd.PersistentFlags().StringVar(&svcName, "name", "cronus", "service instance name")
	cmd.PersistentFlags().StringVar(&svcPath, "path", "/tmp", "directory holding the control socket")

	cmd.AddCommand(startCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(stopCmd())
	cmd.AddCommand(addCmd())
	cmd.AddCommand(deleteCmd())
	cmd.AddCommand(listCmd())
	cmd.AddCommand(statusCmd())
	return cmd
}

// printJSON writes one JSON record to stdout, the output format of every
// subcommand (spec.md §6); only `list --json=false` prints a table instead.
func printJSON(v any) {
	enc := jsonEncoder(os.Stdout)
	_ = enc.Encode(v)
}

func fail(err error) {
	printJSON(map[string]string{"error": err.Error()})
	os.Exit(1)
}
