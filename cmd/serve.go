package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/govflowai/govchat/internal/chat"
	"github.com/govflowai/govchat/internal/db"
	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/server"
	"github.com/govflowai/govchat/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GovChat HTTP server",
	Long:  `Starts the GovChat server with the REST chat API and a WebSocket chat endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		ret, err := buildRetriever(cfg)
		if err != nil {
			return err
		}

		pipeline, err := buildPipeline(cfg, ret)
		if err != nil {
			return err
		}

		dbPath := filepath.Join(cfg.DataDir, "govchat.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		})

		handlers := chat.NewHandlers(pipeline, forms.NewRegistry(), ret, session.NewStore(database))
		handlers.RegisterRoutes(srv.Router())

		// Build the index up front so the first chat request does not
		// pay the embedding cost.
		if n, err := ret.BuildIndex(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: index build failed, responses will be ungrounded: %v\n", err)
		} else if err := persistIndex(cfg, ret); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not persist index: %v\n", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Indexed %d chunks\n", n)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "govchat server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Knowledge base: %s\n", cfg.KnowledgeDir)
		fmt.Fprintf(os.Stderr, "  Chunks indexed: %d\n", ret.ChunkCount())

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
