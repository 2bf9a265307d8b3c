package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameTags,
		Short: TagsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTags(a)
		},
	}
}

func runTags(a *app) error {
	parser, closeFn, err := a.newParser()
	if err != nil {
		return err
	}
	defer closeFn()

	bold := color.New(color.Bold)
	reg := parser.Registry()
	for _, tag := range reg.List() {
		h, _ := reg.Lookup(tag)
		if h.IsBlock() {
			bold.Fprintf(a.stdout, TagsTextBlock, h.Tag, h.EndTag)
			continue
		}
		fmt.Fprintf(a.stdout, TagsTextAtomic, h.Tag)
	}
	return nil
}
