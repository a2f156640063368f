package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tanq16/chessdl/internal/output"
	"github.com/tanq16/chessdl/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [path]",
		Short: "Clean up leftover temporary files",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) > 0 {
				dir = filepath.Dir(args[0])
			}
			if err := utils.Clean(dir); err != nil {
				output.PrintError("Error cleaning up temporary files")
				return
			}
			output.PrintSuccess("Temporary files cleaned up")
		},
	}
}
