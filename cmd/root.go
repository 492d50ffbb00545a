package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "govchat",
	Short: "Conversational assistant for California government services",
	Long: `GovChat answers questions about California DMV services using a
knowledge base of official documents. It classifies requests against a
service intent catalog, extracts form fields from free text, retrieves
relevant passages, and generates grounded, cited responses.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".govchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
