package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by subcommands.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "fsroute",
		Short: "Inspect filesystem routes",
		Long: `fsroute compiles route file paths into URL patterns.

Every file under the routes directory with a recognised extension becomes a
route: users/[id].go is served at /users/:id, blog/[...rest].go at
/blog/:rest*, and (group) directories are left out of the URL.

Settings are read from flags, FSROUTE_* environment variables and an
fsroute.yaml file in the working directory or $HOME/.config/fsroute.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file (default: fsroute.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.StringP("output", "o", "table", "Output format: table, json, yaml")
	flags.StringSlice("extensions", nil, "Route file extensions (default: tsx,jsx,ts,js,go)")
	_ = a.v.BindPFlags(flags)

	cmd.AddCommand(newPatternsCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v := a.v
	v.SetEnvPrefix("FSROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("fsroute")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fsroute"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	logger, err := newLogger(v.GetString("log-level"), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", zap.String("file", used))
	}
	return nil
}

// newLogger returns a console logger writing to w.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
