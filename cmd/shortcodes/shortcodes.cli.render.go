package main

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// renderConfig holds parsed render command flags
type renderConfig struct {
	outputPath  string
	concurrency int
}

func newRenderCmd(a *app) *cobra.Command {
	cfg := &renderConfig{}

	cmd := &cobra.Command{
		Use:     CmdNameRender + " [files...]",
		Short:   RenderShort,
		Long:    RenderLong,
		Example: RenderExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, cfg, args)
		},
	}

	cmd.Flags().StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, "output file (default: stdout)")
	cmd.Flags().IntVarP(&cfg.concurrency, FlagConcurrency, FlagConcurrencyShort, runtime.NumCPU(), "number of files rendered in parallel")

	return cmd
}

func runRender(cmd *cobra.Command, a *app, cfg *renderConfig, paths []string) error {
	if cfg.concurrency < 1 {
		return a.fail(ExitCodeUsageError, ErrMsgInvalidWorkers, fmt.Errorf("%d", cfg.concurrency))
	}

	inputs, err := readInputs(paths, a.stdin)
	if err != nil {
		return a.fail(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	parser, closeFn, err := a.newParser()
	if err != nil {
		return err
	}
	defer closeFn()

	// Each file gets its own Parse call; results keep input order
	results := make([]string, len(inputs))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			out, err := parser.ParseContext(ctx, in.text, nil)
			if err != nil {
				return &fileError{name: in.name, err: err}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var fe *fileError
		if errors.As(err, &fe) {
			return a.fail(ExitCodeError, fe.name+": "+ErrMsgRenderFailed, fe.err)
		}
		return a.fail(ExitCodeError, ErrMsgRenderFailed, err)
	}

	if err := writeOutput(cfg.outputPath, []byte(strings.Join(results, "")), a.stdout); err != nil {
		return a.fail(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// fileError ties a render failure to its input
type fileError struct {
	name string
	err  error
}

func (e *fileError) Error() string {
	return e.name + ": " + e.err.Error()
}

func (e *fileError) Unwrap() error {
	return e.err
}
