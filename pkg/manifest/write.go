package manifest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackorder/pkg/errors"
)

// Write encodes m to w. The output can be re-read with [Read].
func Write(w io.Writer, m *Manifest, f Format) error {
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(m)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(m); err == nil {
			err = enc.Close()
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown manifest format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s manifest: %w", f, err)
	}
	return nil
}

// Marshal returns the compact JSON form of m. Equal manifests marshal to
// equal bytes, so the output is suitable for hashing.
func (m *Manifest) Marshal() ([]byte, error) {
	elements := m.Elements
	if elements == nil {
		elements = []Element{}
	}
	return json.Marshal(Manifest{Options: m.Options, Elements: elements})
}
