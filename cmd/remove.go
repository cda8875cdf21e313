package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/soapywu/pbxsync/pbxproj"
)

var removeCmd = &cobra.Command{
	Use:   "remove <file> ...",
	Short: "Remove files from the manifest, all four sections at once",
	Long: `Remove resolves each path to its file reference identifier and
deletes exactly that entry from the build phase, its groups, the build
file table and the reference table. Nothing is matched by substring,
so unrelated entries sharing part of a name are never touched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().Bool("resource", false, "remove from the Resources build phase instead of Sources")
}

func runRemove(cmd *cobra.Command, args []string) error {
	resource, _ := cmd.Flags().GetBool("resource")

	project, err := loadProject()
	if err != nil {
		return err
	}

	removed, missing := 0, 0
	for _, file := range args {
		var removeErr error
		if resource {
			_, removeErr = project.RemoveResourceFile(file, pbxproj.FileOptions{})
		} else {
			_, removeErr = project.RemoveSourceFile(file, pbxproj.FileOptions{})
		}
		switch {
		case removeErr == nil:
			removed++
			log.Debug("removed", "file", file)
		case errors.Is(removeErr, pbxproj.ErrFileNotFound):
			missing++
			log.Warn("not in manifest", "file", file)
		default:
			return removeErr
		}
	}

	if removed > 0 {
		if err := project.Write(); err != nil {
			return err
		}
	}
	log.Info("remove finished", "removed", removed, "missing", missing, "manifest", project.Path())
	return nil
}
