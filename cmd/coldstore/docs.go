package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/aretw0/coldstore/pkg/machine"
)

var docsCmd = &cobra.Command{
	Use:   "docs [MACHINE]",
	Short: "Render machine documentation in the terminal",
	Long:  `Builds a markdown document from each registered machine's overview, node overviews, and graph, and renders it for the terminal.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := machine.Names()
		if len(args) == 1 {
			if _, ok := machine.Lookup(args[0]); !ok {
				return fmt.Errorf("unknown machine %q", args[0])
			}
			names = args
		}

		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
		if err != nil {
			return err
		}

		for _, name := range names {
			fn, _ := machine.Lookup(name)
			out, err := renderer.Render(machineMarkdown(fn()))
			if err != nil {
				return err
			}
			fmt.Print(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func machineMarkdown(spec machine.Spec) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n", spec.Name, spec.Overview)

	sb.WriteString("## Nodes\n\n")
	diagram := machine.DiagramSpec(spec)
	for _, n := range diagram.Nodes {
		role := ""
		switch {
		case n.Entry:
			role = " *(entry)*"
		case n.Terminal:
			role = " *(terminal)*"
		}
		fmt.Fprintf(&sb, "- **%s**%s — %s\n", n.Name, role, n.Overview)
	}

	sb.WriteString("\n## Graph\n\n```mermaid\n")
	sb.WriteString(diagram.Mermaid())
	sb.WriteString("```\n")
	return sb.String()
}
