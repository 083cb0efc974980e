package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/coldstore/pkg/machine"
)

var graphCmd = &cobra.Command{
	Use:   "graph [MACHINE]",
	Short: "Print a machine's graph as Mermaid",
	Long:  `Renders the declared topology of a registered machine: happy edges green, unhappy edges red. Without an argument, lists the registered machines.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range machine.Names() {
				fmt.Println(name)
			}
			return nil
		}

		fn, ok := machine.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown machine %q", args[0])
		}
		fmt.Print(machine.DiagramSpec(fn()).Mermaid())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
