package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newTraceCmd(a *app) *cobra.Command {
	format := FlagDefaultFormat

	cmd := &cobra.Command{
		Use:   CmdNameTrace + " <file>",
		Short: TraceShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(a, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text, json")
	return cmd
}

func runTrace(a *app, path, format string) error {
	if format != OutputFormatText && format != OutputFormatJSON {
		return a.fail(ExitCodeUsageError, ErrMsgInvalidFormat, errors.New(format))
	}

	inputs, err := readInputs([]string{path}, a.stdin)
	if err != nil {
		return a.fail(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	parser, closeFn, err := a.newParser()
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := parser.Trace(inputs[0].text)
	if err != nil {
		return a.fail(ExitCodeError, ErrMsgTraceFailed, err)
	}

	if format == OutputFormatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return a.fail(ExitCodeError, ErrMsgWriteOutputFailed, err)
		}
		fmt.Fprintln(a.stdout, string(data))
		return nil
	}

	fmt.Fprint(a.stdout, result.String())
	return nil
}
