package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/adapters/modelfile"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/builtin"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List analysis kinds",
	RunE:  runKinds,
}

var kindsClasses bool

func init() {
	rootCmd.AddCommand(kindsCmd)
	kindsCmd.Flags().BoolVar(&kindsClasses, "classes", false, "also list the recognized model export classes")
}

func runKinds(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	registry := builtin.Default()

	bold := lipgloss.NewStyle()
	dim := lipgloss.NewStyle()
	if colorEnabled(out) {
		bold = bold.Bold(true)
		dim = dim.Foreground(lipgloss.Color("8"))
	}

	fmt.Fprintln(out, bold.Render(fmt.Sprintf("%-6s %-28s %-10s %s", "KIND", "NAME", "COMPONENT", "STATUS")))
	for _, k := range core.KnownKinds() {
		status := "available"
		style := lipgloss.NewStyle()
		if !registry.Has(k) {
			status = "not implemented"
			style = dim
		}
		fmt.Fprintln(out, style.Render(fmt.Sprintf("%-6s %-28s %-10s %s", k, k.Label(), k.ComponentNoun(), status)))
	}

	if kindsClasses {
		fmt.Fprintln(out)
		fmt.Fprintln(out, bold.Render("Model export classes:"))
		fmt.Fprintln(out, "  "+strings.Join(modelfile.Classes(), "\n  "))
	}
	return nil
}
