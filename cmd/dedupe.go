package cmd

import (
	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Clean duplicate and orphaned entries out of the manifest",
	Long: `Dedupe removes identifiers listed twice in one group or build phase,
build file records duplicating an earlier one for the same reference,
and build phase entries whose build file no longer exists. With
--keep-group, the files named by --file keep their membership only in
that group.`,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().String("keep-group", "", "group that keeps the membership of the named files")
	dedupeCmd.Flags().StringSlice("file", nil, "file whose group memberships are restricted to --keep-group")
}

func runDedupe(cmd *cobra.Command, _ []string) error {
	keepGroup, _ := cmd.Flags().GetString("keep-group")
	files, _ := cmd.Flags().GetStringSlice("file")

	project, err := loadProject()
	if err != nil {
		return err
	}

	result := project.Deduplicate(keepGroup, files)
	if result.Total() == 0 {
		log.Info("manifest already clean", "manifest", project.Path())
		return nil
	}

	if err := project.Write(); err != nil {
		return err
	}
	log.Info("dedupe finished",
		"duplicate_children", result.DuplicateChildren,
		"foreign_memberships", result.ForeignMemberships,
		"duplicate_build_files", result.DuplicateBuildFiles,
		"orphan_phase_entries", result.OrphanPhaseEntries,
		"manifest", project.Path(),
	)
	return nil
}
