package cmd

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soapywu/pbxsync/pbxproj"
)

var addCmd = &cobra.Command{
	Use:   "add <file|glob> ...",
	Short: "Add files to the manifest (reference, build file, group, phase)",
	Long: `Add registers each file in all four dependent sections. Files already
present are skipped, a missing group or build phase aborts the whole
run, and the manifest is only written when every addition succeeded.

Arguments containing glob metacharacters are expanded against
--source-root, e.g. 'pbxsync add "Features/**/*.swift"'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("group", "", "containment group to insert into (default derived from file type)")
	addCmd.Flags().String("target", "", "native target whose build phase receives the files")
	addCmd.Flags().Bool("create-group", false, "create the containment group when missing")
	addCmd.Flags().Bool("resource", false, "register in the Resources build phase instead of Sources")
	addCmd.Flags().String("source-root", "", "directory glob patterns are resolved against")
	bindViperFlag(addCmd.Flags(), "group")
	bindViperFlag(addCmd.Flags(), "target")
}

func runAdd(cmd *cobra.Command, args []string) error {
	createGroup, _ := cmd.Flags().GetBool("create-group")
	resource, _ := cmd.Flags().GetBool("resource")
	sourceRoot, _ := cmd.Flags().GetString("source-root")

	files, err := resolveInputs(args, sourceRoot)
	if err != nil {
		return err
	}

	project, err := loadProject()
	if err != nil {
		return err
	}

	options := pbxproj.FileOptions{
		Group:       viper.GetString("group"),
		Target:      viper.GetString("target"),
		CreateGroup: createGroup,
	}

	added, skipped := 0, 0
	for _, file := range files {
		var addErr error
		if resource {
			_, addErr = project.AddResourceFile(file, options)
		} else {
			_, addErr = project.AddSourceFile(file, options)
		}
		switch {
		case addErr == nil:
			added++
			log.Debug("added", "file", file)
		case errors.Is(addErr, pbxproj.ErrFileExists):
			skipped++
			log.Info("already present, skipping", "file", file)
		default:
			// abort before writing; the manifest on disk is untouched
			return addErr
		}
	}

	if added > 0 {
		if err := project.Write(); err != nil {
			return err
		}
	}
	log.Info("add finished", "added", added, "skipped", skipped, "manifest", project.Path())
	return nil
}

// resolveInputs expands glob arguments against the source root and
// passes plain paths through untouched.
func resolveInputs(args []string, sourceRoot string) ([]string, error) {
	files := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			files = append(files, filepath.ToSlash(arg))
			continue
		}

		pattern := arg
		if sourceRoot != "" {
			pattern = filepath.Join(sourceRoot, arg)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %s", arg)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("pattern %s matched no files", arg)
		}
		for _, match := range matches {
			if sourceRoot != "" {
				if rel, err := filepath.Rel(sourceRoot, match); err == nil {
					match = rel
				}
			}
			files = append(files, filepath.ToSlash(match))
		}
	}
	return files, nil
}
