package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/cronus/internal/ipcsock"
	"github.com/nextlevelbuilder/cronus/internal/service"
)

// runCmd runs the daemon in the foreground; `start` re-execs this
// subcommand detached via rundaemon.Spawn.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground (start re-execs this detached)",
		Run: func(cmd *cobra.Command, args []string) {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			svc, err := service.New(ipcsock.Addr(svcPath, svcName), logger)
			if err != nil {
				fail(fmt.Errorf("run: %w", err))
			}
			if err := svc.Run(); err != nil {
				fail(fmt.Errorf("run: %w", err))
			}
		},
	}
}
