package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameValidate + " [files...]",
		Short: ValidateShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(a, args)
		},
	}
}

func runValidate(a *app, paths []string) error {
	inputs, err := readInputs(paths, a.stdin)
	if err != nil {
		return a.fail(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	parser, closeFn, err := a.newParser()
	if err != nil {
		return err
	}
	defer closeFn()

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	failed := 0
	for _, in := range inputs {
		if err := parser.Validate(in.text); err != nil {
			failed++
			red.Fprintf(a.stderr, ValidationTextFailure, in.name, err)
			continue
		}
		green.Fprintf(a.stdout, ValidationTextSuccess, in.name)
	}

	if failed > 0 {
		return &exitError{code: ExitCodeError, err: fmt.Errorf("%s: %d file(s)", ErrMsgValidateFailed, failed)}
	}
	return nil
}
