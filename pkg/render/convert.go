package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	errs "github.com/matzehuels/gcad/pkg/errors"
)

// rsvgBinary is the converter used for plan PNG and PDF output.
var rsvgBinary = "rsvg-convert"

// ToPDF converts SVG bytes to PDF with rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return convertSVG(context.Background(), svg, "pdf", 1)
}

// ToPNG converts SVG bytes to PNG with rsvg-convert at the given zoom.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return convertSVG(context.Background(), svg, "png", scale)
}

func convertSVG(ctx context.Context, svg []byte, format string, zoom float64) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnsupported, err,
			"plan %s output needs %s (librsvg); use svg or dot instead", format, rsvgBinary)
	}

	args := []string{"-f", format}
	if zoom > 0 && zoom != 1 {
		args = append(args, "-z", strconv.FormatFloat(zoom, 'f', 2, 64))
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
