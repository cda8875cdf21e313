package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check four-way consistency of the manifest",
	Long: `Verify reads the manifest and reports every violated invariant:
build files pointing at missing references, group or phase entries
that no longer resolve, identifiers listed twice in one list, build
files scheduled in no phase and references grouped nowhere. The
manifest is never modified; the exit code is non-zero when anything
is wrong.`,
	RunE: runVerify,
}

func runVerify(_ *cobra.Command, _ []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	report := project.Verify()
	if len(report) == 0 {
		log.Info("manifest consistent", "manifest", project.Path())
		return nil
	}

	for _, inc := range report {
		log.Warn(inc.Kind, "uuid", inc.UUID, "detail", inc.Detail)
	}
	return errors.Errorf("manifest inconsistent: %d problem(s)", len(report))
}
