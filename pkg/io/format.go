package io

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/errors"
)

// Format names an input format.
type Format string

const (
	FormatText Format = "text"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported input formats.
var Formats = []Format{FormatText, FormatTOML, FormatJSON, FormatYAML}

// ParseFormat converts a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "txt":
		return FormatText, nil
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q (want text, toml, json or yaml)", s)
}

// DetectFormat infers the input format from a file extension.
// Unknown or missing extensions are read as text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatText
}

// Read dispatches to the reader for format.
func Read(r io.Reader, format Format) ([]dag.Record, error) {
	switch format {
	case FormatText, "":
		return ReadText(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input format %q", format)
}

// ReadFile opens path and reads it with the format implied by its extension.
func ReadFile(path string) ([]dag.Record, error) {
	return ReadFileAs(path, DetectFormat(path))
}

// ReadFileAs opens path and reads it with the given format.
func ReadFileAs(path string, format Format) ([]dag.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "task file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	records, err := Read(f, format)
	if err != nil {
		return nil, err
	}
	return records, nil
}
