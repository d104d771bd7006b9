package manifest

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackorder/pkg/errors"
)

// Read decodes and validates a manifest from r.
func Read(r io.Reader, f Format) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	switch f {
	case FormatJSON:
		err = decodeJSON(data, &m)
	case FormatTOML:
		err = decodeTOML(data, &m)
	case FormatYAML:
		err = decodeYAML(data, &m)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown manifest format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s manifest", f)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads the manifest at path, detecting the format from its extension.
func Load(path string) (*Manifest, error) {
	if err := errors.ValidateManifestPath(path); err != nil {
		return nil, err
	}
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	m, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func decodeJSON(data []byte, m *Manifest) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(m)
}

func decodeTOML(data []byte, m *Manifest) error {
	md, err := toml.Decode(string(data), m)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, m *Manifest) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}
