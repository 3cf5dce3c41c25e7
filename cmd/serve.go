package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kcitlyn/Astrarium1/internal/auth"
	"github.com/kcitlyn/Astrarium1/internal/config"
	"github.com/kcitlyn/Astrarium1/internal/llm"
	"github.com/kcitlyn/Astrarium1/internal/oracle"
	"github.com/kcitlyn/Astrarium1/internal/practice"
	"github.com/kcitlyn/Astrarium1/internal/server"
	"github.com/kcitlyn/Astrarium1/internal/skills"
	"github.com/kcitlyn/Astrarium1/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Astrarium HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides ASTRARIUM_ADDR)")
}

func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.FromEnv()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLM, db)
	if err != nil {
		fmt.Fprintln(os.Stderr, "oracle provider not configured:", err)
		fmt.Fprintln(os.Stderr, "question generation will fall back to canned questions.")
		provider = llm.NewMockProvider()
	}

	orc := oracle.New(provider, oracle.DefaultConfig())
	authSvc := auth.NewService(db)
	skillSvc := skills.NewService(db)
	orchestrator := practice.NewOrchestrator(db, orc)

	srv := server.New(db, authSvc, skillSvc, orchestrator, version)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "astrarium serving on %s\n", cfg.Addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}
