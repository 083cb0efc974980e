package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coldstore",
	Short: "Coldstore archives database backups to long-term storage",
	Long:  `Coldstore runs validated state machines that dump, encrypt, and archive databases, and restores them back.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "/etc/coldstore/config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("tenant", "", "Tenant identifier")
	rootCmd.PersistentFlags().String("authority", "", "Authority host")
}
