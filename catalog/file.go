package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk form of a catalog:
//
//	cases:
//	  - labeled: false
//	    input_bits: 32
//	    sender_size: 65536
//	    ...
type File struct {
	Cases []Case `yaml:"cases"`
}

// Load decodes a YAML catalog from r and validates it. Unknown keys are
// rejected so a misspelled parameter does not silently fall back to zero.
func Load(r io.Reader) (Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode catalog: empty document")
		}

		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("catalog has no cases")
	}

	c := Catalog(f.Cases)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	return c, nil
}

// Write encodes c as a YAML catalog.
func Write(w io.Writer, c Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(File{Cases: c}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	return enc.Close()
}
