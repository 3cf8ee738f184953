package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/schedulator/pkg/errors"
	schedio "github.com/matzehuels/schedulator/pkg/io"
	"github.com/matzehuels/schedulator/pkg/render/nodelink"
)

// RenderFormat produces one output format for an analyzed result without
// consulting any cache.
func RenderFormat(ctx context.Context, res *Result, format string, detailed bool) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := schedio.WriteJSON(res.Schedule, res.Paths, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatCSV:
		var buf bytes.Buffer
		if err := schedio.WriteCSV(res.Schedule, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(res.Graph, res.Schedule, nodelink.Options{Detailed: detailed})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
}
