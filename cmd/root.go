package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/xvsh/commands"
	"github.com/josephlewis42/xvsh/core/config"
	"github.com/josephlewis42/xvsh/core/logger"
	"github.com/josephlewis42/xvsh/core/vos"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	script  string
)

// loadConfig loads the --config directory, or the built-in defaults if none
// was given.
func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// openEvents starts a logging session for the shell.
func openEvents(cfg *config.Configuration) (*logger.SessionLogger, func() error, error) {
	if !cfg.EventLog {
		return logger.NewDiscardLogger().NewSession(), func() error { return nil }, nil
	}

	fd, err := cfg.OpenAppLog()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJsonLinesLogRecorder(fd).NewSession(), fd.Close, nil
}

// newHostOS creates the process layer forked children use, passing the
// prompt along for background announcements.
func newHostOS(prompt string) (*vos.HostOS, error) {
	host, err := vos.NewHostOS()
	if err != nil {
		return nil, err
	}
	host.ChildArgs = []string{vos.ChildCommand, "--prompt", prompt, "--"}
	return host, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xvsh",
	Short: "A minimal Unix command shell",
	Long: `A minimal Unix command shell supporting simple commands, pipelines
and background commands.

Run without arguments to read commands from standard input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		events, closeEvents, err := openEvents(cfg)
		if err != nil {
			return err
		}

		host, err := newHostOS(cfg.Prompt)
		if err != nil {
			closeEvents()
			return err
		}

		sh := commands.NewShell(host, vos.NewOSIO(), cfg, events)

		var status int
		if cmd.Flags().Changed("command") {
			status = sh.RunScript(cmd.Context(), script)
		} else {
			status = sh.Run(cmd.Context())
		}

		closeEvents()
		os.Exit(status)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory, built-in defaults if empty")
	rootCmd.Flags().StringVarP(&script, "command", "c", "", "run a single line and exit")
}
