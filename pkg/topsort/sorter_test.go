package topsort

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

var encodings = []Encoding{EncodingSequence, EncodingText}

func mustSort(t *testing.T, s *Sorter) []string {
	t.Helper()
	got, err := s.Sort()
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	return got
}

func TestSorter_Sort(t *testing.T) {
	tests := []struct {
		name     string
		elements []Element
		want     []string
	}{
		{
			name: "empty",
			want: []string{},
		},
		{
			name: "forward and backward references",
			elements: []Element{
				{ID: "brand1"},
				{ID: "car1", Dependencies: []string{"brand1"}},
				{ID: "car2", Dependencies: []string{"brand2"}},
				{ID: "brand2"},
			},
			want: []string{"brand1", "car1", "brand2", "car2"},
		},
		{
			name: "shared dependencies",
			elements: []Element{
				{ID: "car1", Dependencies: []string{"owner1", "brand1"}},
				{ID: "owner3", Dependencies: []string{"brand2"}},
				{ID: "owner2", Dependencies: []string{"brand2"}},
				{ID: "brand1"},
				{ID: "brand2"},
				{ID: "owner1", Dependencies: []string{"brand1"}},
			},
			want: []string{"brand1", "owner1", "car1", "brand2", "owner3", "owner2"},
		},
		{
			name: "deep chains",
			elements: []Element{
				{ID: "car0", Dependencies: []string{"owner0", "brand0"}},
				{ID: "owner0", Dependencies: []string{"brand0"}},
				{ID: "brand0"},
				{ID: "car1", Dependencies: []string{"owner1", "brand1"}},
				{ID: "owner1", Dependencies: []string{"brand1"}},
				{ID: "brand1"},
				{ID: "sellerX", Dependencies: []string{"brandX3"}},
				{ID: "brandY", Dependencies: []string{"sellerX", "brandX2"}},
				{ID: "brandX"},
				{ID: "brandX2", Dependencies: []string{"brandX", "brandX3"}},
				{ID: "brandX3"},
			},
			want: []string{
				"brand0", "owner0", "car0",
				"brand1", "owner1", "car1",
				"brandX3", "sellerX", "brandX", "brandX2", "brandY",
			},
		},
		{
			name: "duplicate dependencies",
			elements: []Element{
				{ID: "a", Dependencies: []string{"b", "b"}},
				{ID: "b"},
			},
			want: []string{"b", "a"},
		},
	}

	for _, tt := range tests {
		for _, enc := range encodings {
			t.Run(tt.name+"/"+enc.String(), func(t *testing.T) {
				s := NewSorter(WithEncoding(enc))
				if err := s.Set(tt.elements...); err != nil {
					t.Fatalf("Set() error = %v", err)
				}
				if got := mustSort(t, s); !slices.Equal(got, tt.want) {
					t.Errorf("Sort() = %v, want %v", got, tt.want)
				}
			})
		}
	}
}

func TestSorter_Deterministic(t *testing.T) {
	s := NewSorter()
	_ = s.Add("c", "a")
	_ = s.Add("b")
	_ = s.Add("a", "b")

	first := mustSort(t, s)
	for i := 0; i < 5; i++ {
		if got := mustSort(t, s); !slices.Equal(got, first) {
			t.Fatalf("Sort() pass %d = %v, want %v", i, got, first)
		}
	}
}

func TestSorter_AddAfterSort(t *testing.T) {
	s := NewSorter()
	_ = s.Add("a", "b")
	_ = s.Add("b")
	mustSort(t, s)

	_ = s.Add("c", "a")
	if got, want := mustSort(t, s), []string{"b", "a", "c"}; !slices.Equal(got, want) {
		t.Errorf("Sort() = %v, want %v", got, want)
	}
}

func TestSorter_UnusualIDs(t *testing.T) {
	long := strings.Repeat("x", 300)
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			s := NewSorter(WithEncoding(enc))
			for _, add := range [][]string{
				{"tab\there", "new\nline"},
				{"new\nline", long},
				{long},
				{"ünï 🚗", "tab\there"},
			} {
				if err := s.Add(add[0], add[1:]...); err != nil {
					t.Fatalf("Add(%q) error = %v", add[0], err)
				}
			}
			want := []string{long, "new\nline", "tab\there", "ünï 🚗"}
			if got := mustSort(t, s); !slices.Equal(got, want) {
				t.Errorf("Sort() = %q, want %q", got, want)
			}
		})
	}
}

func TestSorter_CircularDependency(t *testing.T) {
	tests := []struct {
		name      string
		elements  []Element
		wantMsg   string
		wantNodes []string
		wantStart string
		wantEnd   string
	}{
		{
			name: "two elements",
			elements: []Element{
				{ID: "car1", Dependencies: []string{"owner1"}},
				{ID: "owner1", Dependencies: []string{"car1"}},
			},
			wantMsg:   "circular dependency found: car1->owner1->car1",
			wantNodes: []string{"car1", "owner1"},
			wantStart: "car1",
			wantEnd:   "owner1",
		},
		{
			name: "three elements",
			elements: []Element{
				{ID: "car1", Dependencies: []string{"owner1"}},
				{ID: "owner1", Dependencies: []string{"brand1"}},
				{ID: "brand1", Dependencies: []string{"car1"}},
			},
			wantMsg:   "circular dependency found: car1->owner1->brand1->car1",
			wantNodes: []string{"car1", "owner1", "brand1"},
			wantStart: "car1",
			wantEnd:   "brand1",
		},
		{
			name: "self reference",
			elements: []Element{
				{ID: "a", Dependencies: []string{"a"}},
			},
			wantMsg:   "circular dependency found: a->a",
			wantNodes: []string{"a"},
			wantStart: "a",
			wantEnd:   "a",
		},
		{
			name: "cycle below the root",
			elements: []Element{
				{ID: "x", Dependencies: []string{"a"}},
				{ID: "a", Dependencies: []string{"b"}},
				{ID: "b", Dependencies: []string{"a"}},
			},
			wantMsg:   "circular dependency found: x->a->b->a",
			wantNodes: []string{"x", "a", "b"},
			wantStart: "x",
			wantEnd:   "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSorter()
			_ = s.Set(tt.elements...)

			got, err := s.Sort()
			if got != nil {
				t.Errorf("Sort() = %v, want nil on failure", got)
			}
			var cyc *CircularDependencyError
			if !errors.As(err, &cyc) {
				t.Fatalf("Sort() error = %v, want *CircularDependencyError", err)
			}
			if cyc.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", cyc.Error(), tt.wantMsg)
			}
			if !slices.Equal(cyc.Nodes(), tt.wantNodes) {
				t.Errorf("Nodes() = %v, want %v", cyc.Nodes(), tt.wantNodes)
			}
			if cyc.Start() != tt.wantStart {
				t.Errorf("Start() = %q, want %q", cyc.Start(), tt.wantStart)
			}
			if cyc.End() != tt.wantEnd {
				t.Errorf("End() = %q, want %q", cyc.End(), tt.wantEnd)
			}
			if !apperrors.Is(err, apperrors.ErrCodeCircularDependency) {
				t.Errorf("GetCode() = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeCircularDependency)
			}
		})
	}
}

func TestSorter_CycleDetectionDisabled(t *testing.T) {
	for _, enc := range encodings {
		s := NewSorter(WithEncoding(enc))
		s.SetThrowCircularDependency(false)
		_ = s.Add("car1", "owner1")
		_ = s.Add("owner1", "car1")

		got := mustSort(t, s)
		if want := []string{"owner1", "car1"}; !slices.Equal(got, want) {
			t.Errorf("%s: Sort() = %v, want %v", enc, got, want)
		}
	}
}

func TestSorter_PermissiveContainsEveryElement(t *testing.T) {
	s := NewSorter(WithCyclePolicy(IgnoreCycles()))
	_ = s.Add("a", "b")
	_ = s.Add("b", "c")
	_ = s.Add("c", "a")
	_ = s.Add("d", "c")

	got := mustSort(t, s)
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	if want := []string{"a", "b", "c", "d"}; !slices.Equal(sorted, want) {
		t.Errorf("Sort() = %v, want a permutation of %v", got, want)
	}
	if slices.Index(got, "d") < slices.Index(got, "c") {
		t.Errorf("Sort() = %v, d placed before its dependency c", got)
	}
}

func TestSorter_Interceptor(t *testing.T) {
	var calls [][]string
	s := NewSorter()
	s.SetCircularInterceptor(func(path []string) {
		calls = append(calls, path)
	})
	_ = s.Add("car1", "owner1")
	_ = s.Add("owner1", "car1")

	got := mustSort(t, s)
	if want := []string{"owner1", "car1"}; !slices.Equal(got, want) {
		t.Errorf("Sort() = %v, want %v", got, want)
	}
	if len(calls) != 1 {
		t.Fatalf("interceptor called %d times, want 1", len(calls))
	}
	if want := []string{"car1", "owner1", "car1"}; !slices.Equal(calls[0], want) {
		t.Errorf("interceptor path = %v, want %v", calls[0], want)
	}
}

func TestSorter_InterceptorPaths(t *testing.T) {
	tests := []struct {
		name     string
		elements []Element
		wantPath []string
		want     []string
	}{
		{
			name: "three elements",
			elements: []Element{
				{ID: "a", Dependencies: []string{"b"}},
				{ID: "b", Dependencies: []string{"c"}},
				{ID: "c", Dependencies: []string{"a"}},
			},
			wantPath: []string{"a", "b", "c", "a"},
			want:     []string{"c", "b", "a"},
		},
		{
			name: "cycle below the root",
			elements: []Element{
				{ID: "r", Dependencies: []string{"a"}},
				{ID: "a", Dependencies: []string{"b"}},
				{ID: "b", Dependencies: []string{"a"}},
			},
			wantPath: []string{"r", "a", "b", "a"},
			want:     []string{"b", "a", "r"},
		},
	}

	for _, tt := range tests {
		for _, enc := range encodings {
			t.Run(fmt.Sprintf("%s/%s", tt.name, enc), func(t *testing.T) {
				var calls [][]string
				s := NewSorter(WithEncoding(enc), WithCircularInterceptor(func(path []string) {
					calls = append(calls, path)
				}))
				_ = s.Set(tt.elements...)

				got := mustSort(t, s)
				if !slices.Equal(got, tt.want) {
					t.Errorf("Sort() = %v, want %v", got, tt.want)
				}
				if len(calls) != 1 {
					t.Fatalf("interceptor called %d times, want 1", len(calls))
				}
				if !slices.Equal(calls[0], tt.wantPath) {
					t.Errorf("interceptor path = %v, want %v", calls[0], tt.wantPath)
				}
			})
		}
	}
}

func TestSorter_DetectionOffWinsOverInterceptor(t *testing.T) {
	called := false
	s := NewSorter(
		WithCircularInterceptor(func([]string) { called = true }),
		WithCycleDetection(false),
	)
	_ = s.Add("a", "b")
	_ = s.Add("b", "a")
	mustSort(t, s)

	if called {
		t.Error("interceptor called with detection disabled")
	}
	if s.CyclePolicy().Mode != CycleModePermissive {
		t.Errorf("CyclePolicy().Mode = %v, want permissive", s.CyclePolicy().Mode)
	}
}

func TestSorter_CyclePolicy(t *testing.T) {
	s := NewSorter()
	if got := s.CyclePolicy().Mode; got != CycleModeStrict {
		t.Errorf("default Mode = %v, want strict", got)
	}
	if !s.IsThrowCircularDependency() {
		t.Error("IsThrowCircularDependency() = false by default")
	}

	s.SetCircularInterceptor(func([]string) {})
	if got := s.CyclePolicy().Mode; got != CycleModeIntercept {
		t.Errorf("Mode with interceptor = %v, want intercept", got)
	}

	s.SetCircularInterceptor(nil)
	if got := s.CyclePolicy().Mode; got != CycleModeStrict {
		t.Errorf("Mode after clearing interceptor = %v, want strict", got)
	}
}

func TestSorter_ElementNotFound(t *testing.T) {
	s := NewSorter()
	_ = s.Add("car1", "owner1")
	_ = s.Add("owner1", "car2")

	_, err := s.Sort()
	var nf *ElementNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Sort() error = %v, want *ElementNotFoundError", err)
	}
	if nf.Source != "owner1" || nf.Target != "car2" {
		t.Errorf("error = {%s %s}, want {owner1 car2}", nf.Source, nf.Target)
	}
	if want := "dependency `car2` not found, required by `owner1`"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !apperrors.Is(err, apperrors.ErrCodeElementNotFound) {
		t.Errorf("GetCode() = %q, want ELEMENT_NOT_FOUND", apperrors.GetCode(err))
	}
}

func TestSorter_ElementNotFoundNotSuppressed(t *testing.T) {
	s := NewSorter(WithCycleDetection(false))
	_ = s.Add("a", "missing")

	_, err := s.Sort()
	var nf *ElementNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("Sort() error = %v, want *ElementNotFoundError", err)
	}
}

// randomDAG registers n elements in shuffled order. Element i may only
// depend on elements with a smaller index, so the graph is acyclic.
func randomDAG(rng *rand.Rand, n int) []Element {
	types := []string{"brand", "owner", "car"}
	elements := make([]Element, n)
	for i := range elements {
		e := Element{ID: fmt.Sprintf("e%d", i), Type: types[rng.Intn(len(types))]}
		for j := 0; j < i; j++ {
			if rng.Intn(4) == 0 {
				e.Dependencies = append(e.Dependencies, fmt.Sprintf("e%d", j))
			}
		}
		elements[i] = e
	}
	rng.Shuffle(n, func(i, j int) { elements[i], elements[j] = elements[j], elements[i] })
	return elements
}

// checkOrder fails if order is not a permutation of elements that places
// every element after its dependencies.
func checkOrder(t *testing.T, elements []Element, order []string) {
	t.Helper()
	if len(order) != len(elements) {
		t.Fatalf("len(order) = %d, want %d", len(order), len(elements))
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := pos[id]; dup {
			t.Fatalf("%s appears twice in %v", id, order)
		}
		pos[id] = i
	}
	for _, e := range elements {
		for _, dep := range e.Dependencies {
			if pos[dep] >= pos[e.ID] {
				t.Errorf("%s at %d precedes its dependency %s at %d", e.ID, pos[e.ID], dep, pos[dep])
			}
		}
	}
}

func TestSorter_RandomDAGs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 50; round++ {
		elements := randomDAG(rng, 1+rng.Intn(40))

		var results [][]string
		for _, enc := range encodings {
			s := NewSorter(WithEncoding(enc))
			if err := s.Set(elements...); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			order := mustSort(t, s)
			checkOrder(t, elements, order)
			results = append(results, order)
		}
		if !slices.Equal(results[0], results[1]) {
			t.Errorf("round %d: sequence %v != text %v", round, results[0], results[1])
		}
	}
}
