package render

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	errs "github.com/matzehuels/chartkit/pkg/errors"
)

// rsvgConvert is the librsvg binary used for raster and PDF output.
const rsvgConvert = "rsvg-convert"

// ToPDF converts an SVG document to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convertSVG(svg, "pdf")
}

// ToPNG converts an SVG document to PNG, scaled by scale (1 when <= 0).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convertSVG(svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// convertSVG pipes svg through rsvg-convert. A missing binary is reported
// as UNSUPPORTED with install hints.
func convertSVG(svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, errs.New(errs.ErrCodeUnsupported,
			"%s output needs %s (brew install librsvg, or apt install librsvg2-bin)", format, rsvgConvert)
	}

	cmd := exec.Command(bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
