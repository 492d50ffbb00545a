package cmd

import (
	"github.com/spf13/cobra"

	"github.com/govflowai/govchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize govchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure govchat and generates a .govchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
