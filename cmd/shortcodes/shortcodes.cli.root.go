package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itsatony/go-shortcodes"
)

// app holds the I/O streams and global flags shared by every command
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	noColor    bool
	verbose    bool
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          CLILongHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       shortcodes.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, FlagConfig, FlagConfigShort, "", "YAML config file (delimiters, built-ins, snippet store)")
	cmd.PersistentFlags().BoolVar(&a.noColor, FlagNoColor, false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&a.verbose, FlagVerbose, FlagVerboseShort, false, "write debug logs to stderr")

	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newTraceCmd(a))
	cmd.AddCommand(newTagsCmd(a))
	cmd.AddCommand(newVersionCmd(a))

	return cmd
}

// logger returns a console debug logger on stderr when verbose, else a no-op
func (a *app) logger() *zap.Logger {
	if !a.verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(a.stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// newParser builds a parser from the config file, or from the defaults
// when no file is given. The returned close function releases the
// snippet store.
func (a *app) newParser() (*shortcodes.Parser, func(), error) {
	config := shortcodes.DefaultConfig()
	if a.configPath != "" {
		loaded, err := shortcodes.LoadConfig(a.configPath)
		if err != nil {
			return nil, nil, a.fail(ExitCodeInputError, ErrMsgConfigFailed, err)
		}
		config = loaded
	}

	p, store, err := shortcodes.NewFromConfig(config,
		shortcodes.WithoutGlobal(),
		shortcodes.WithLogger(a.logger()),
	)
	if err != nil {
		return nil, nil, a.fail(ExitCodeInputError, ErrMsgConfigFailed, err)
	}

	closeFn := func() {
		if store != nil {
			_ = store.Close()
		}
	}
	return p, closeFn, nil
}
