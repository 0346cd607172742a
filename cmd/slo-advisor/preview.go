package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var previewWidth int

var previewCmd = &cobra.Command{
	Use:   "preview <guide>",
	Short: "Render a generated guide in the terminal",
	Long: `Render a generated SLO Implementation Guide (or any Markdown file)
with terminal styling, for review before publishing.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewWidth, "width", 100, "Wrap width for rendered output")
}

func runPreview(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read guide: %w", err)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(previewWidth),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := renderer.Render(string(data))
	if err != nil {
		return fmt.Errorf("render guide: %w", err)
	}

	fmt.Print(out)
	return nil
}
