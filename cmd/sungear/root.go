package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sungear/internal/config"
	"github.com/katalvlaran/sungear/internal/logging"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputYAML = "yaml"
)

// app is the state shared by subcommands once PersistentPreRunE has run.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd creates the root sungear command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "sungear",
		Short:         "Sungear: explore how items distribute across anchor combinations",
		Long:          "Sungear partitions items into vessels by their pass/fail pattern across anchors and ranks vessels by hypergeometric over-representation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (json, pretty)")

	root.AddCommand(
		newExploreCmd(a),
		newHypergeoCmd(a),
		newPresetsCmd(a),
		newRankCmd(a),
		newVersionCmd(),
	)

	return root
}

// init resolves configuration (flag > env > file > defaults) and builds the
// logger.
func (a *app) init(cmd *cobra.Command) error {
	v := a.v
	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return sgerr.Errorf(sgerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		v.SetConfigName("sungear")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sungear")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return sgerr.Errorf(sgerr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
		}
	}

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{"log.level": "log-level", "log.format": "log-format"} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return sgerr.Errorf(sgerr.CodeCLISetupFailure, "binding %s flag: %w", flag, err)
			}
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lc := cfg.Logging()
	lc.Out = cmd.ErrOrStderr()
	lc.Service = "sungear"
	lc.Version = version
	if a.log, err = logging.Init(lc); err != nil {
		return sgerr.Errorf(sgerr.CodeCLISetupFailure, "initializing logger: %w", err)
	}
	a.log.Debug().Str("config", v.ConfigFileUsed()).Msg("configuration loaded")

	return nil
}

func checkOutput(format string) error {
	switch format {
	case outputText, outputYAML:
		return nil
	}
	return sgerr.New(sgerr.CodeCLIInputInvalid,
		fmt.Sprintf("--output must be one of [%s, %s], got %q", outputText, outputYAML, format))
}

// render writes v as YAML, or calls text for the text format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	if strings.EqualFold(format, outputYAML) {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return sgerr.Errorf(sgerr.CodeCLIOutputFailure, "encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return sgerr.Errorf(sgerr.CodeCLIOutputFailure, "encoding yaml: %w", err)
		}
		return nil
	}
	if err := text(w); err != nil {
		return sgerr.Errorf(sgerr.CodeCLIOutputFailure, "writing output: %w", err)
	}
	return nil
}
