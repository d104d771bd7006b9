package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/stackorder/pkg/topsort"
)

var testGroups = []topsort.Group{
	{Type: "brand", Level: 0, Position: 0, Length: 2, Elements: []string{"brand1", "brand2"}},
	{Type: "car", Level: 1, Position: 2, Length: 1, Elements: []string{"car1"}},
}

func TestWriteOrder(t *testing.T) {
	tests := []struct {
		format Format
		ids    []string
		want   string
	}{
		{FormatText, []string{"a", "b"}, "a\nb\n"},
		{FormatText, nil, ""},
		{FormatJSON, []string{"a", "b"}, "[\n  \"a\",\n  \"b\"\n]\n"},
		{FormatJSON, nil, "[]\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WriteOrder(&buf, tt.ids, tt.format); err != nil {
			t.Fatalf("WriteOrder(%s) error = %v", tt.format, err)
		}
		if buf.String() != tt.want {
			t.Errorf("WriteOrder(%s, %v) = %q, want %q", tt.format, tt.ids, buf.String(), tt.want)
		}
	}

	if err := WriteOrder(&bytes.Buffer{}, nil, FormatSVG); err == nil {
		t.Error("WriteOrder(svg) error = nil, want error")
	}
}

func TestWriteGroups(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGroups(&buf, testGroups, FormatText); err != nil {
		t.Fatalf("WriteGroups(text) error = %v", err)
	}
	if want := "[brand] brand1, brand2\n[car] car1\n"; buf.String() != want {
		t.Errorf("WriteGroups(text) = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteGroups(&buf, testGroups, FormatJSON); err != nil {
		t.Fatalf("WriteGroups(json) error = %v", err)
	}
	var decoded []topsort.Group
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Position != 2 || decoded[0].Elements[1] != "brand2" {
		t.Errorf("WriteGroups(json) decoded = %+v", decoded)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", "dot", "svg"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) error = nil, want error")
	}
}

func TestToDOT(t *testing.T) {
	elements := []topsort.Element{
		{ID: "car1", Type: "car", Dependencies: []string{"brand1"}},
		{ID: "brand1", Type: "brand"},
		{ID: "brand2", Type: "brand"},
	}

	dot := ToDOT(elements, testGroups, Options{})
	for _, want := range []string{
		"digraph G {",
		"subgraph cluster_0 {",
		"subgraph cluster_1 {",
		`"car1" -> "brand1";`,
		`label="brand #0";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}

	detailed := ToDOT(elements, nil, Options{Detailed: true})
	if strings.Contains(detailed, "subgraph") {
		t.Error("ToDOT() without groups drew clusters")
	}
	if !strings.Contains(detailed, `"car1" [label="car1\ntype: car"];`) {
		t.Errorf("ToDOT(detailed) missing typed label:\n%s", detailed)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	elements := []topsort.Element{
		{ID: "car1", Type: "car", Dependencies: []string{"brand1"}},
		{ID: "brand1", Type: "brand"},
		{ID: "brand2", Type: "brand"},
	}
	svg, err := RenderSVG(context.Background(), ToDOT(elements, testGroups, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<?xml")) && !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("RenderSVG() = %.80s..., want an svg document", svg)
	}
	if !bytes.Contains(svg, []byte("car1")) {
		t.Error("RenderSVG() output should contain node labels")
	}

	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() with broken DOT should fail")
	}
}
