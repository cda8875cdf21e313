package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the parsed manifest tree as JSON",
	Long: `Dump parses the manifest and prints the typed tree as indented JSON
on stdout, for inspecting what the other commands operate on. The
manifest is never modified.`,
	RunE: runDump,
}

func runDump(_ *cobra.Command, _ []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}
	return project.Dump(os.Stdout)
}
