package topsort

import (
	"slices"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

func TestRegistry_AddAndGet(t *testing.T) {
	var r Registry
	if err := r.Add("car1", "car", "owner1", "brand1"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, ok := r.Get("car1")
	if !ok {
		t.Fatal("Get(car1) not found")
	}
	if got.Type != "car" {
		t.Errorf("Type = %q, want car", got.Type)
	}
	if !slices.Equal(got.Dependencies, []string{"owner1", "brand1"}) {
		t.Errorf("Dependencies = %v, want [owner1 brand1]", got.Dependencies)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if r.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", r.EdgeCount())
	}
	if r.Has("owner1") {
		t.Error("Has(owner1) = true for an unregistered dependency")
	}
}

func TestRegistry_OverwriteKeepsPosition(t *testing.T) {
	r, err := NewRegistry(
		Element{ID: "a"},
		Element{ID: "b"},
		Element{ID: "c"},
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if err := r.Add("a", "x", "c"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var ids []string
	for _, e := range r.Elements() {
		ids = append(ids, e.ID)
	}
	if !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Errorf("Elements() order = %v, want [a b c]", ids)
	}
	got, _ := r.Get("a")
	if got.Type != "x" || !slices.Equal(got.Dependencies, []string{"c"}) {
		t.Errorf("Get(a) = %+v, want type x deps [c]", got)
	}
}

func TestRegistry_DependenciesAreCopied(t *testing.T) {
	deps := []string{"b"}
	var r Registry
	if err := r.Add("a", "", deps...); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	deps[0] = "mutated"

	got, _ := r.Get("a")
	if got.Dependencies[0] != "b" {
		t.Errorf("Dependencies[0] = %q, want b", got.Dependencies[0])
	}

	got.Dependencies[0] = "mutated"
	again, _ := r.Get("a")
	if again.Dependencies[0] != "b" {
		t.Errorf("Get() returned shared storage")
	}
}

func TestRegistry_RejectsInvalidIDs(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"null byte", "a\x00b"},
		{"trailing null byte", "ab\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Registry
			err := r.Add(tt.id, "")
			if !apperrors.Is(err, apperrors.ErrCodeInvalidElement) {
				t.Errorf("Add(%q) error = %v, want INVALID_ELEMENT", tt.id, err)
			}
			if r.Len() != 0 {
				t.Errorf("Len() = %d after rejected Add, want 0", r.Len())
			}
		})
	}
}

func TestRegistry_AcceptsAnyOtherID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		typ  string
	}{
		{"tab", "a\tb", ""},
		{"newline", "a\nb", "multi\nline"},
		{"long", strings.Repeat("x", 300), strings.Repeat("t", 300)},
		{"unicode", "ünïcode 🚗", "typ\x01e"},
		{"single space", " ", " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Registry
			if err := r.Add(tt.id, tt.typ); err != nil {
				t.Fatalf("Add(%q, %q) error = %v", tt.id, tt.typ, err)
			}
			got, ok := r.Get(tt.id)
			if !ok || got.ID != tt.id || got.Type != tt.typ {
				t.Errorf("Get(%q) = %+v, %v", tt.id, got, ok)
			}
		})
	}
}

func TestRegistry_SetStopsAtFirstInvalid(t *testing.T) {
	var r Registry
	err := r.Set(
		Element{ID: "a"},
		Element{ID: ""},
		Element{ID: "c"},
	)
	if err == nil {
		t.Fatal("Set() error = nil, want error")
	}
	if r.Len() != 1 || !r.Has("a") || r.Has("c") {
		t.Errorf("registry after failed Set() = %v, want only a", r.Elements())
	}
}
