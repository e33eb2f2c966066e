// Package main provides the entry point for the ectts CLI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jx06T/ectts3/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	dataDir    string
	setID      string
	mouse      bool
	silent     bool

	rootCmd = &cobra.Command{
		Use:   "ectts [SET]",
		Short: "Drill vocabulary with spoken playback, in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nDrill vocabulary %s: each word is spoken, spelled out, and translated on a timer you control.", keyword("out loud")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	mouse = viper.GetBool("mouse")
	silent = viper.GetBool("silent")
	if !cmd.Flags().Changed("set") {
		setID = viper.GetString("set")
	}
	if !cmd.Flags().Changed("data-dir") {
		dataDir = viper.GetString("data-dir")
	}
	return nil
}

func execute(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		setID = args[0]
	}

	// The TUI needs a real terminal; everything else has its own subcommand.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; try %q to list voices or %q to speak a phrase", "ectts voices", "ectts speak")
	}
	return runTUI()
}

func runTUI() error {
	// Read environment for debugging overrides.
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	cfg.SetID = setID
	cfg.EnableMouse = mouse
	if silent {
		cfg.Silent = true
	}

	p, err := ui.NewProgram(cfg)
	if err != nil {
		return fmt.Errorf("unable to set up program: %w", err)
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVar(&setID, "set", "", "open the word set with this id")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "directory holding word sets and settings")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")
	rootCmd.Flags().BoolVar(&silent, "silent", false, "pace playback without speaking")

	// Config bindings
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))
	_ = viper.BindPFlag("silent", rootCmd.Flags().Lookup("silent"))
	_ = viper.BindPFlag("set", rootCmd.Flags().Lookup("set"))
	_ = viper.BindPFlag("data-dir", rootCmd.Flags().Lookup("data-dir"))

	viper.SetDefault("mouse", false)
	viper.SetDefault("silent", false)

	rootCmd.AddCommand(configCmd, manCmd, voicesCmd, speakCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "ectts")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "ectts")}, dirs...)
	}

	if c := os.Getenv("ECTTS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("ectts")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("ectts")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "ectts.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
