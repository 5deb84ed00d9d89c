package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "market-cli",
	Short: "Marketplace settlement toolbox",
	Long: `Offline helpers for the marketplace settlement core:
fee split quoting and deterministic address / listing key derivation.`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
