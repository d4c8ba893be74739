package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	berrors "github.com/matzehuels/backdrop/pkg/errors"
)

// Output formats for snapshots.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// converter is the external rasterizer used for PNG and PDF.
const converter = "rsvg-convert"

// ParseFormat normalizes a format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimPrefix(s, ".")); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	default:
		return "", berrors.New(berrors.ErrCodeInvalidInput, "unsupported format %q (want svg, png or pdf)", s)
	}
}

// Convert turns an SVG document into format. SVG input is returned as is;
// PNG and PDF need rsvg-convert from librsvg on PATH. Scale only affects PNG.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return rsvgConvert(ctx, svg, format, "-z", fmt.Sprintf("%.2f", scale))
	case FormatPDF:
		return rsvgConvert(ctx, svg, format)
	default:
		return nil, berrors.New(berrors.ErrCodeInvalidInput, "unsupported format %q", format)
	}
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(converter); err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeNotFound, err,
			"%s export requires librsvg (brew install librsvg, apt install librsvg2-bin)", format)
	}

	cmd := exec.CommandContext(ctx, converter, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", converter, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
