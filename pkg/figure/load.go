package figure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/gcad/pkg/errors"
)

// Format is a figure document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported figure file extension: %q", filepath.Ext(path))
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTOML, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown figure format %q", s)
}

// Decode reads a document in format f from r and validates its shape.
// Unknown fields are rejected.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown field %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown figure format %q", f)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes data in format f.
func Parse(data []byte, f Format) (*Document, error) {
	return Decode(bytes.NewReader(data), f)
}

// Load reads the figure file at path, choosing the format by extension.
// The name defaults to the file's base name.
func Load(path string) (*Document, error) {
	if err := errs.ValidateLocalPath(path); err != nil {
		return nil, err
	}
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "figure %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// Encode writes d to w in format f.
func Encode(w io.Writer, d *Document, f Format) error {
	switch f {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unknown figure format %q", f)
}

// Canonical returns the compact JSON form of d. Documents that decode to
// the same values have the same canonical form regardless of source format.
func (d *Document) Canonical() ([]byte, error) {
	return json.Marshal(d)
}
