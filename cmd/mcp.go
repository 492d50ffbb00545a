package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/intent"
	mcpserver "github.com/govflowai/govchat/internal/mcp"
	"github.com/govflowai/govchat/internal/slots"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing knowledge search, intent classification, and form template tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ret, err := buildRetriever(cfg)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "govchat MCP server started on stdio (knowledge=%s)\n", cfg.KnowledgeDir)

		srv := mcpserver.NewServer(ret, intent.NewClassifier(), slots.NewExtractor(cfg.AddressFallback), forms.NewRegistry())
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
