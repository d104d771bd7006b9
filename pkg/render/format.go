package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/stackorder/pkg/errors"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatDOT, FormatSVG:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", s)
	}
}

// WriteOrder writes a linear order as text or JSON.
func WriteOrder(w io.Writer, ids []string, f Format) error {
	switch f {
	case FormatText:
		for _, id := range ids {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		if ids == nil {
			ids = []string{}
		}
		return writeJSON(w, ids)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "orders cannot be written as %s", f)
	}
}

// WriteGroups writes a grouped order as text or JSON.
func WriteGroups(w io.Writer, groups []topsort.Group, f Format) error {
	switch f {
	case FormatText:
		for _, g := range groups {
			if _, err := fmt.Fprintf(w, "[%s] %s\n", g.Type, strings.Join(g.Elements, ", ")); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		if groups == nil {
			groups = []topsort.Group{}
		}
		return writeJSON(w, groups)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "groups cannot be written as %s", f)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
