package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gcad/pkg/pipeline"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	view      string
	input     string // figure file; names outputs when output is empty
	output    string // file (single format), base path, or "-" for stdout
}

// writeArtifacts writes each artifact and prints the written paths.
// A single format with an explicit output is written to exactly that path.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if p.output == "-" {
		if len(p.formats) != 1 {
			return nil, fmt.Errorf("stdout output requires exactly one format")
		}
		_, err := out.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	var written []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(p, format)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// artifactPath names the output file for format. JSON solutions get a
// ".solution.json" suffix so they never overwrite a JSON figure file, and
// plan renders get ".plan".
func artifactPath(p artifactWriteParams, format string) string {
	if p.output != "" && len(p.formats) == 1 {
		return p.output
	}
	base := p.output
	if base == "" {
		base = strings.TrimSuffix(p.input, filepath.Ext(p.input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	switch {
	case format == pipeline.FormatJSON:
		return base + ".solution.json"
	case p.view == pipeline.ViewPlan:
		return base + ".plan." + format
	}
	return base + "." + format
}
