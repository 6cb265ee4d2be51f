package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "jdbtool"

var logger *slog.Logger

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jdbtool",
		Short:         "Inspect and script a jdb object-graph store",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogger(viper.GetBool("verbose"))
			return viper.BindPFlags(cmd.Flags())
		},
	}

	root.PersistentFlags().String("db", "jdb.db", "Path to the store's database file")
	root.PersistentFlags().Bool("verbose", false, "Enable debug-level logging")

	cobra.OnInitialize(func() {
		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		_ = viper.BindPFlags(root.PersistentFlags())
	})

	root.AddCommand(newGetCmd(), newSetCmd(), newDumpCmd(), newVerifyCmd(), newStatsCmd())
	return root
}

// initLogger wires a terminal-aware slog handler on stderr: colorized tint
// output on a TTY, the same tint handler with color turned off otherwise,
// the same idiom this dependency pack's other CLIs use for console logging.
func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	var out = colorable.NewColorable(os.Stderr)
	logger = slog.New(tint.NewHandler(out, &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
}

func dbPath() string      { return viper.GetString("db") }
func rootVerbose() bool { return viper.GetBool("verbose") }
