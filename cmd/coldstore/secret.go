package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/coldstore/pkg/config"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the encrypted configuration values",
}

var secretSetCmd = &cobra.Command{
	Use:   "set GROUP KEY [VALUE]",
	Short: "Encrypt and store a secret value",
	Long:  `Encrypts the value with the installed key and rewrites the configuration file atomically with the new value in place, preserving existing entries. When VALUE is omitted, prompts for it without echo.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")

		var value string
		if len(args) == 3 {
			value = args[2]
		} else {
			fmt.Fprint(os.Stderr, "Secret: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read secret: %w", err)
			}
			value = string(raw)
		}

		return config.Set(path, args[0], args[1], value)
	},
}

var secretGenkeyCmd = &cobra.Command{
	Use:   "genkey PATH",
	Short: "Generate a fresh symmetric key",
	Long:  `Writes a new encryption key to PATH in the format the configuration layer expects. Refuses to overwrite an existing file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.GenerateKey(args[0])
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretGenkeyCmd)
	rootCmd.AddCommand(secretCmd)
}
