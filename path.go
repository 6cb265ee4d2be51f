package jdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is a single element of a Path: either an object key or an array
// index, never both. The zero Step is an object key with an empty string,
// so always construct Steps via Key/Index rather than a literal.
type Step struct {
	key     string
	index   int
	isIndex bool
}

func Key(k string) Step  { return Step{key: k} }
func Index(i int) Step   { return Step{index: i, isIndex: true} }

func (s Step) IsIndex() bool { return s.isIndex }
func (s Step) KeyStr() string {
	if s.isIndex {
		panic("jdb: Step.KeyStr called on an array-index step")
	}
	return s.key
}
func (s Step) IndexVal() int {
	if !s.isIndex {
		panic("jdb: Step.IndexVal called on an object-key step")
	}
	return s.index
}

func (s Step) String() string {
	if s.isIndex {
		return fmt.Sprintf("[%d]", s.index)
	}
	return fmt.Sprintf(".%q", s.key)
}

// Path is a sequence of Steps from the root. The empty Path denotes the
// root itself.
type Path []Step

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Child returns a new Path with step appended, leaving p untouched.
func (p Path) Child(step Step) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = step
	return out
}

func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePath parses the textual form used by the CLI: object keys are
// written as .key (bare text up to the next '.' or '[', no quoting
// support) and array indices as [N]; every step, the first included,
// starts with '.' or '[', and the empty string is the root. This is a
// convenience surface over
// the core, not part of the normative encoding in spec.md §6.
func ParsePath(s string) (Path, error) {
	var p Path
	i := 0
	n := len(s)
	for i < n {
		switch s[i] {
		case '.':
			i++
			start := i
			for i < n && s[i] != '.' && s[i] != '[' {
				i++
			}
			if i == start {
				return nil, fmt.Errorf("jdb: empty key in path %q", s)
			}
			p = append(p, Key(s[start:i]))
		case '[':
			i++
			start := i
			for i < n && s[i] != ']' {
				i++
			}
			if i >= n {
				return nil, fmt.Errorf("jdb: unterminated index in path %q", s)
			}
			idx, err := strconv.Atoi(s[start:i])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("jdb: invalid array index %q in path %q", s[start:i], s)
			}
			p = append(p, Index(idx))
			i++ // skip ']'
		default:
			return nil, fmt.Errorf("jdb: unexpected character %q in path %q", s[i], s)
		}
	}
	return p, nil
}
