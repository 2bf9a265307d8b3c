package main

import (
	"io"
	"os"
)

// input is one named source text
type input struct {
	name string
	text string
}

// readInputs reads every path, or stdin when paths is empty
func readInputs(paths []string, stdin io.Reader) ([]input, error) {
	if len(paths) == 0 {
		paths = []string{InputSourceStdin}
	}

	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		data, err := readInput(path, stdin)
		if err != nil {
			return nil, err
		}
		name := path
		if path == InputSourceStdin {
			name = StdinDisplayName
		}
		inputs = append(inputs, input{name: name, text: string(data)})
	}
	return inputs, nil
}

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}
