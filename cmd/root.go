package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "featuremap",
	Short: "Explore release history as a drill-down treemap",
	Long: `featuremap reads release spreadsheets (csv, xlsx, json, yaml or sqlite)
and shows feature counts as a treemap by category or quarter, with
drill-down into teams and a year/month release calendar.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	RunE:              runRootDefault,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .featuremap.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.StringSliceP("data", "d", nil, "release data files (csv, xlsx, json, yaml, sqlite)")
	pf.String("start", "", "first release date to include (YYYY-MM-DD)")
	pf.String("end", "", "last release date to include (YYYY-MM-DD)")
	pf.String("mode", "", "grouping mode: category or quarter")

	for key, flag := range map[string]string{
		"verbose":      "verbose",
		"data":         "data",
		"window.start": "start",
		"window.end":   "end",
		"mode":         "mode",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".featuremap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("FEATUREMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// setupLogger attaches the session logger to the command context.
func setupLogger(cmd *cobra.Command, _ []string) error {
	level := log.InfoLevel
	if viper.GetBool("verbose") {
		level = log.DebugLevel
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, newLogger(os.Stderr, level)))
	return nil
}

// runRootDefault launches the dashboard when data sources are configured
// and falls back to help otherwise.
func runRootDefault(cmd *cobra.Command, args []string) error {
	if len(viper.GetStringSlice("data")) == 0 {
		return cmd.Help()
	}
	return runTUI(cmd, args)
}
