package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-shortcodes"
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

func newVersionCmd(a *app) *cobra.Command {
	format := FlagDefaultFormat

	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: VersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(a, format)
		},
	}

	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text, json")
	return cmd
}

func runVersion(a *app, format string) error {
	switch format {
	case OutputFormatText:
		fmt.Fprintf(a.stdout, VersionTextTemplate, CLIName, shortcodes.Version, runtime.Version())
		return nil
	case OutputFormatJSON:
		jsonBytes, _ := json.MarshalIndent(versionOutput{
			Version:   shortcodes.Version,
			GoVersion: runtime.Version(),
		}, "", "  ")
		fmt.Fprintln(a.stdout, string(jsonBytes))
		return nil
	default:
		return a.fail(ExitCodeUsageError, ErrMsgInvalidFormat, errors.New(format))
	}
}
