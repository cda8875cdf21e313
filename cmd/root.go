package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soapywu/pbxsync/internal/logging"
	"github.com/soapywu/pbxsync/pbxproj"
)

var Version = "0.2.0"

var log logging.Logger

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pbxsync",
	Short: "Keep an Xcode project manifest consistent",
	Long: `pbxsync edits a project.pbxproj manifest as a typed tree: adding or
removing a file updates the file reference table, the build file
table, its containment group and the build phase together, or not at
all. The manifest file is replaced atomically and only after every
requested change succeeded.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		log = logging.NewDefaultLogger(logging.ParseLevel(level))
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .pbxsync.yaml in the working directory)")
	rootCmd.PersistentFlags().StringP("project", "p", "project.pbxproj", "path to the project manifest")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	bindViperFlag(rootCmd.PersistentFlags(), "project")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("pbxsync {{.Version}}\n")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(stripWhiteCmd)
	rootCmd.AddCommand(dumpCmd)
}

// bindViperFlag exposes a flag through viper under the same name, so
// config file and PBXSYNC_* environment values feed it too.
func bindViperFlag(flags *pflag.FlagSet, name string) {
	_ = viper.BindPFlag(name, flags.Lookup(name))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".pbxsync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("PBXSYNC")
	viper.AutomaticEnv()

	// a missing config file is fine; flags and defaults cover everything
	_ = viper.ReadInConfig()
}

func loadProject() (*pbxproj.Project, error) {
	project := pbxproj.NewProject(viper.GetString("project"))
	if err := project.Parse(); err != nil {
		return nil, err
	}
	return project, nil
}
