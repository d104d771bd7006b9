package topsort

import "strings"

// Group is a contiguous band of same-typed elements in a grouped order.
type Group struct {
	Type     string   `json:"type"`
	Level    int      `json:"level"`    // Creation order, 0-based
	Position int      `json:"position"` // Index of the first member in the flat order
	Length   int      `json:"length"`
	Elements []string `json:"elements"`
}

// groupLayout is a sink that clusters placed elements into typed groups.
type groupLayout interface {
	sink
	ids() []string
	groups() []Group
}

func newGroupLayout(e Encoding) groupLayout {
	if e == EncodingText {
		return &textLayout{}
	}
	return &logLayout{}
}

// firstGroup scans from the newest group down and returns the level of the
// first group of type typ at or above minLevel, or -1.
func firstGroup(count int, typeAt func(int) string, typ string, minLevel int) int {
	for level := count - 1; level >= 0 && level >= minLevel; level-- {
		if typeAt(level) == typ {
			return level
		}
	}
	return -1
}

// logLayout appends every id to an emission log and keeps, per group, the
// log indices of its members. Positions are resolved when the groups are read,
// so an insertion never shifts other groups.
type logLayout struct {
	log     []string
	types   []string
	members [][]int
}

func (l *logLayout) reset() {
	l.log = l.log[:0]
	l.types = l.types[:0]
	l.members = l.members[:0]
}

func (l *logLayout) groupLevel() int { return len(l.types) }

func (l *logLayout) place(id, typ string, minLevel int) int {
	level := firstGroup(len(l.types), func(i int) string { return l.types[i] }, typ, minLevel)
	if level < 0 {
		level = len(l.types)
		l.types = append(l.types, typ)
		l.members = append(l.members, nil)
	}
	l.members[level] = append(l.members[level], len(l.log))
	l.log = append(l.log, id)
	return level
}

func (l *logLayout) groups() []Group {
	out := make([]Group, len(l.types))
	pos := 0
	for level, typ := range l.types {
		ids := make([]string, len(l.members[level]))
		for k, idx := range l.members[level] {
			ids[k] = l.log[idx]
		}
		out[level] = Group{Type: typ, Level: level, Position: pos, Length: len(ids), Elements: ids}
		pos += len(ids)
	}
	return out
}

func (l *logLayout) ids() []string {
	out := make([]string, 0, len(l.log))
	for _, g := range l.groups() {
		out = append(out, g.Elements...)
	}
	return out
}

// textGroup owns the delimited ids of one group. offset is the byte offset
// of the group's span in the assembled output.
type textGroup struct {
	typ    string
	buf    strings.Builder
	length int
	offset int
}

// textLayout keeps a private delimited buffer per group and shifts the byte
// offsets of later groups whenever an earlier group grows.
type textLayout struct {
	list []*textGroup
	size int
}

func (t *textLayout) reset() {
	t.list = t.list[:0]
	t.size = 0
}

func (t *textLayout) groupLevel() int { return len(t.list) }

func (t *textLayout) place(id, typ string, minLevel int) int {
	ref := id + delimiter
	level := firstGroup(len(t.list), func(i int) string { return t.list[i].typ }, typ, minLevel)
	if level < 0 {
		g := &textGroup{typ: typ, offset: t.size, length: 1}
		g.buf.WriteString(ref)
		t.list = append(t.list, g)
		t.size += len(ref)
		return len(t.list) - 1
	}

	g := t.list[level]
	g.buf.WriteString(ref)
	g.length++
	for _, other := range t.list {
		if other.offset > g.offset {
			other.offset += len(ref)
		}
	}
	t.size += len(ref)
	return level
}

// assemble copies every group buffer to its offset.
func (t *textLayout) assemble() string {
	buf := make([]byte, t.size)
	for _, g := range t.list {
		copy(buf[g.offset:], g.buf.String())
	}
	return string(buf)
}

func (t *textLayout) ids() []string {
	return splitDelimited(t.assemble())
}

func (t *textLayout) groups() []Group {
	out := make([]Group, len(t.list))
	pos := 0
	for level, g := range t.list {
		out[level] = Group{
			Type:     g.typ,
			Level:    level,
			Position: pos,
			Length:   g.length,
			Elements: splitDelimited(g.buf.String()),
		}
		pos += g.length
	}
	return out
}
