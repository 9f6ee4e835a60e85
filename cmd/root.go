package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/ccname/internal/output"
	"github.com/joescharf/ccname/internal/pipeline"
	"github.com/joescharf/ccname/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ccname",
	Short: "Name Claude Code sessions after their git branch",
	Long: `ccname renames Claude Code sessions at startup based on the current
git branch. The first session on a branch is named after the branch;
later sessions get " (2)", " (3)", and so on. Install "ccname hook" as
a SessionStart hook to rename automatically.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/ccname/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "ccname")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CCNAME")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()

	viper.SetDefault("skip_branch", "main")
	viper.SetDefault("projects_dir", filepath.Join(home, ".claude", "projects"))
	viper.SetDefault("log_path", filepath.Join(home, ".config", "ccname", "debug.log"))
	viper.SetDefault("git_timeout", 5*time.Second)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

// getStore returns the JSONL session store rooted at the configured
// projects directory.
func getStore() store.Store {
	return store.NewJSONLStore(viper.GetString("projects_dir"))
}

// pipelineConfig builds the pipeline tunables from viper.
func pipelineConfig() pipeline.Config {
	return pipeline.Config{
		SkipBranch: viper.GetString("skip_branch"),
		GitTimeout: viper.GetDuration("git_timeout"),
	}
}
