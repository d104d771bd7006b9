package topsort

import "strings"

// delimiter separates ids in the text encodings. Registration rejects ids
// containing it.
const delimiter = "\x00"

// Emitter collects finished elements in completion order.
//
// The two implementations, [SequenceEmitter] and [TextEmitter], trade
// allocation patterns against each other and must return identical ids for
// identical input.
type Emitter interface {
	// Reset discards everything emitted so far.
	Reset()
	// Emit appends id to the output.
	Emit(id string)
	// IDs returns the emitted ids in order.
	IDs() []string
	// Len returns the number of emitted ids.
	Len() int
}

// NewEmitter returns the emitter for an encoding.
func NewEmitter(e Encoding) Emitter {
	if e == EncodingText {
		return &TextEmitter{}
	}
	return &SequenceEmitter{}
}

// SequenceEmitter appends ids to a growable slice.
type SequenceEmitter struct {
	ids []string
}

func (s *SequenceEmitter) Reset()         { s.ids = s.ids[:0] }
func (s *SequenceEmitter) Emit(id string) { s.ids = append(s.ids, id) }
func (s *SequenceEmitter) Len() int       { return len(s.ids) }

// IDs returns a copy of the emitted ids.
func (s *SequenceEmitter) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// TextEmitter writes every id followed by a null byte into one buffer and
// splits the buffer when the ids are requested.
type TextEmitter struct {
	buf   strings.Builder
	count int
}

func (t *TextEmitter) Reset() {
	t.buf.Reset()
	t.count = 0
}

func (t *TextEmitter) Emit(id string) {
	t.buf.WriteString(id)
	t.buf.WriteString(delimiter)
	t.count++
}

func (t *TextEmitter) Len() int { return t.count }

// IDs splits the buffer on the delimiter.
func (t *TextEmitter) IDs() []string {
	return splitDelimited(t.buf.String())
}

// splitDelimited splits a buffer of delimiter-terminated ids, dropping the
// empty token after the final delimiter.
func splitDelimited(s string) []string {
	s = strings.TrimSuffix(s, delimiter)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, delimiter)
}
