package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"partnerlab-agent-be/internal/bootstrap"
	"partnerlab-agent-be/internal/config"
	"partnerlab-agent-be/internal/mcptools"
	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/pkg/database"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP tool server on stdio",
	Long: `Starts the form session tools as a Model Context Protocol server.
Stdout carries JSON-RPC, so every log line goes to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(os.Stderr)

		cfg := config.Load()
		sysLogger := logger.NewStderrLogger()
		defer sysLogger.Sync()

		db, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.Connection)
		if err != nil {
			return err
		}

		container, err := bootstrap.NewContainer(db, cfg, sysLogger)
		if err != nil {
			return err
		}
		defer container.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		container.SessionManager.StartJanitor(ctx, cfg.Session.SweepInterval)
		if err := container.ConsumerService.Consume(ctx); err != nil {
			sysLogger.Warn("EVENTS", "Receipt consumer not started", map[string]interface{}{"error": err.Error()})
		}

		return mcptools.NewServer(container.FormSessionService, sysLogger).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
