package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/govflowai/govchat/internal/chat"
)

var askLocation string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question from the terminal",
	Long:  `Runs a single utterance through the full chat pipeline and prints the response, detected intent, and sources.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if askLocation != "" {
			cfg.Location = askLocation
		}

		ret, err := buildRetriever(cfg)
		if err != nil {
			return err
		}
		pipeline, err := buildPipeline(cfg, ret)
		if err != nil {
			return err
		}

		resp, err := pipeline.Handle(cmd.Context(), chat.Request{
			Message:  strings.Join(args, " "),
			Location: cfg.Location,
		})
		if err != nil {
			return err
		}

		fmt.Println(resp.Response)

		if resp.Intent != "" {
			fmt.Printf("\nIntent: %s\n", resp.Intent)
		}
		if resp.FormTemplate != nil {
			fmt.Printf("Form: %s (required: %s)\n", resp.FormTemplate.Name, strings.Join(resp.FormTemplate.RequiredFields, ", "))
		}
		if len(resp.ExtractedData) > 0 {
			fmt.Println("Extracted:")
			for field, value := range resp.ExtractedData {
				fmt.Printf("  %s: %s\n", field, value)
			}
		}
		if len(resp.Sources) > 0 {
			fmt.Println("Sources:")
			for _, src := range resp.Sources {
				fmt.Printf("  - %s\n", src.Source)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askLocation, "location", "", "user location (overrides config)")
	rootCmd.AddCommand(askCmd)
}
