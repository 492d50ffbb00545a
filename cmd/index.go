package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the knowledge base index",
	Long:  `Loads all knowledge base documents, chunks them, embeds each chunk, and builds the vector index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ret, err := buildRetriever(cfg)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		ret.SetProgress(func(doc string, done, total int) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "indexing")
			}
			bar.Add(1)
		})

		n, err := ret.BuildIndex(cmd.Context())
		if err != nil {
			return fmt.Errorf("building index: %w", err)
		}
		if err := persistIndex(cfg, ret); err != nil {
			return fmt.Errorf("persisting index: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Indexed %d chunks from %s\n", n, cfg.KnowledgeDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
