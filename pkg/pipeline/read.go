package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schedulator/pkg/dag"
	schedio "github.com/matzehuels/schedulator/pkg/io"
)

// ReadFile tokenizes the task file at path. An empty input format is
// inferred from the extension.
func ReadFile(path, input string) ([]dag.Record, error) {
	if input == "" {
		return schedio.ReadFile(path)
	}
	format, err := schedio.ParseFormat(input)
	if err != nil {
		return nil, err
	}
	return schedio.ReadFileAs(path, format)
}

// ReadBody tokenizes an in-memory task document, as received by the API.
func ReadBody(r io.Reader, input string) ([]dag.Record, error) {
	format := schedio.FormatText
	if input != "" {
		f, err := schedio.ParseFormat(input)
		if err != nil {
			return nil, err
		}
		format = f
	}
	return schedio.Read(r, format)
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
