package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/soapywu/pbxsync/imaging"
)

var stripWhiteCmd = &cobra.Command{
	Use:   "strip-white <image.png> ...",
	Short: "Make near-white PNG backgrounds transparent",
	Long: `Strip-white clears the alpha channel of every pixel whose R, G and B
channels all reach the threshold. Images are rewritten in place unless
--output is given (single input only).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStripWhite,
}

func init() {
	stripWhiteCmd.Flags().Int("threshold", imaging.DefaultThreshold, "channel value from which a pixel counts as white (0-255)")
	stripWhiteCmd.Flags().StringP("output", "o", "", "output path (single input only; default in place)")
}

func runStripWhite(cmd *cobra.Command, args []string) error {
	threshold, _ := cmd.Flags().GetInt("threshold")
	output, _ := cmd.Flags().GetString("output")

	if threshold < 0 || threshold > 255 {
		return errors.Errorf("threshold %d out of range 0-255", threshold)
	}
	if output != "" && len(args) != 1 {
		return errors.New("--output requires exactly one input image")
	}

	for _, input := range args {
		target := input
		if output != "" {
			target = output
		}
		cleared, err := imaging.StripWhiteBackgroundFile(input, target, uint8(threshold))
		if err != nil {
			return err
		}
		log.Info("stripped white background", "image", input, "output", target, "pixels_cleared", cleared)
	}
	return nil
}
