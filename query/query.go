// Package query evaluates MATLAB-like path expressions against the
// variables of a BHV2 file.
//
// A query is a dot-separated path. Each segment names a variable or struct
// field and may carry a 1-based index in parentheses:
//
//	FileInfo                  top-level variable
//	Trial1.AnalogData         dot navigation into structs
//	Trial1.ErrorCode(1)       1-based linear indexing
//	Trial*.ErrorCode          glob wildcard
//	Trial{1..10}.Condition    range expansion
//	Trial{1,5,10}.Condition   list expansion
//
// The empty query (or ".") matches every top-level variable.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
	"github.com/prestolab/bhv2/value"
)

// Segment is one dot-separated part of a query path.
type Segment struct {
	Field    string // field name pattern, possibly with * or {..}
	Index    string // raw index expression, "" when absent
	wildcard bool
}

// Query is a parsed path expression.
type Query struct {
	segments []Segment
}

// Parse parses a query expression. The empty expression and "." parse to
// the match-everything query.
func Parse(expr string) (*Query, error) {
	if expr == "" || expr == "." {
		return &Query{}, nil
	}

	q := &Query{}
	for _, raw := range splitSegments(expr) {
		if raw == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", errs.ErrQuerySyntax, expr)
		}

		seg := Segment{Field: raw}
		if open := strings.IndexByte(raw, '('); open >= 0 {
			end := strings.LastIndexByte(raw, ')')
			if end < open {
				return nil, fmt.Errorf("%w: unbalanced parens in %q", errs.ErrQuerySyntax, raw)
			}
			seg.Field = raw[:open]
			seg.Index = raw[open+1 : end]
		}
		if seg.Field == "" {
			return nil, fmt.Errorf("%w: index without field in %q", errs.ErrQuerySyntax, raw)
		}
		seg.wildcard = strings.ContainsAny(seg.Field, "*{")

		q.segments = append(q.segments, seg)
	}

	return q, nil
}

// splitSegments splits on dots outside parens and braces.
func splitSegments(expr string) []string {
	var (
		segs  []string
		depth int
		start int
	)
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		case '.':
			if depth == 0 {
				segs = append(segs, expr[start:i])
				start = i + 1
			}
		}
	}

	return append(segs, expr[start:])
}

// Segments returns the parsed segments.
func (q *Query) Segments() []Segment { return q.segments }

// Empty reports whether the query matches every top-level variable.
func (q *Query) Empty() bool { return len(q.segments) == 0 }

// HasPatterns reports whether any segment uses glob or brace syntax.
func (q *Query) HasPatterns() bool {
	for _, s := range q.segments {
		if s.wildcard {
			return true
		}
	}

	return false
}

// patterns returns the concrete name patterns a segment matches against,
// after brace expansion.
func (s Segment) patterns() []string {
	if !s.wildcard {
		return []string{s.Field}
	}

	return ExpandBraces(s.Field)
}

func (s Segment) matches(name string) bool {
	for _, p := range s.patterns() {
		if MatchGlob(name, p) {
			return true
		}
	}

	return false
}

// ExpandBraces expands one brace group in pattern into the list of strings
// it denotes: {a..b} is an inclusive integer range, {a,b,c} a list. A
// pattern without braces, or with malformed brace content, is returned as a
// single literal. A descending range expands to nothing.
func ExpandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}
	end := strings.IndexByte(pattern[open:], '}')
	if end < 0 {
		return []string{pattern}
	}
	end += open

	prefix, inside, suffix := pattern[:open], pattern[open+1:end], pattern[end+1:]

	if lo, hi, ok := strings.Cut(inside, ".."); ok {
		start, err1 := strconv.Atoi(lo)
		stop, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil {
			return []string{pattern}
		}
		if start > stop {
			return nil
		}

		out := make([]string, 0, stop-start+1)
		for i := start; i <= stop; i++ {
			out = append(out, prefix+strconv.Itoa(i)+suffix)
		}

		return out
	}

	if strings.ContainsRune(inside, ',') {
		items := strings.Split(inside, ",")
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, prefix+strings.TrimSpace(item)+suffix)
		}

		return out
	}

	return []string{pattern}
}

// MatchGlob reports whether name matches pattern, where * matches any run
// of characters (including none).
func MatchGlob(name, pattern string) bool {
	for len(pattern) > 0 {
		if pattern[0] == '*' {
			pattern = pattern[1:]
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if MatchGlob(name[i:], pattern) {
					return true
				}
			}

			return false
		}

		if len(name) == 0 || name[0] != pattern[0] {
			return false
		}
		name, pattern = name[1:], pattern[1:]
	}

	return name == ""
}

// Result is one (path, value) pair produced by query execution.
type Result struct {
	Path  string
	Value *value.Value
}

// Variable is a named top-level value, the input domain of Execute.
type Variable struct {
	Name  string
	Value *value.Value
}

// Execute evaluates the query against a set of top-level variables and
// returns all matches in encounter order. An empty result slice (not an
// error) means nothing matched.
func (q *Query) Execute(vars []Variable) []Result {
	if q.Empty() {
		results := make([]Result, 0, len(vars))
		for _, v := range vars {
			results = append(results, Result{Path: v.Name, Value: v.Value})
		}

		return results
	}

	var results []Result
	first := q.segments[0]
	for _, v := range vars {
		if !first.matches(v.Name) {
			continue
		}

		val := v.Value
		if first.Index != "" {
			var ok bool
			val, ok = applyIndex(val, first.Index)
			if !ok {
				continue
			}
		}
		results = append(results, q.descend(val, 1, v.Name)...)
	}

	return results
}

// MatchesVariable reports whether the query's first segment can match a
// top-level variable of the given name. Used by streaming callers to skip
// variables without decoding them.
func (q *Query) MatchesVariable(name string) bool {
	if q.Empty() {
		return true
	}

	return q.segments[0].matches(name)
}

func (q *Query) descend(val *value.Value, segIdx int, path string) []Result {
	if val == nil {
		return nil
	}
	if segIdx >= len(q.segments) {
		return []Result{{Path: path, Value: val}}
	}
	if val.Kind() != format.KindStruct {
		// Dead end: the path continues but the value has no fields.
		return nil
	}

	seg := q.segments[segIdx]
	var results []Result
	for elem := uint64(0); elem < val.ElementCount(); elem++ {
		for slot := uint64(0); slot < val.FieldWidth(); slot++ {
			fs, err := val.FieldAt(elem, slot)
			if err != nil || fs.IsHole() {
				continue
			}
			if !seg.matches(fs.Name) {
				continue
			}

			child := fs.Value
			if seg.Index != "" {
				var ok bool
				child, ok = applyIndex(child, seg.Index)
				if !ok {
					continue
				}
			}
			results = append(results, q.descend(child, segIdx+1, path+"."+fs.Name)...)
		}
	}

	return results
}

// applyIndex applies a 1-based index expression to a value. Colons mean
// "all along this dimension" and leave the value whole. Out-of-range or
// malformed indices report !ok instead of an error, so pattern queries can
// keep going past variables where the index does not apply.
func applyIndex(val *value.Value, expr string) (*value.Value, bool) {
	parts := strings.Split(expr, ",")
	subs := make([]uint64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == ":" {
			// Slicing beyond whole-value selection is not supported;
			// a colon keeps the value whole.
			return val, true
		}

		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil || n < 1 {
			return nil, false
		}
		subs = append(subs, n)
	}

	var linear uint64
	switch {
	case len(subs) == 1:
		linear = subs[0] - 1
	case uint64(len(subs)) == uint64(val.Rank()):
		var err error
		linear, err = val.Sub2Ind(subs)
		if err != nil {
			return nil, false
		}
	default:
		return nil, false
	}

	return elementAt(val, linear)
}

// elementAt extracts element linear of val as a standalone value.
func elementAt(val *value.Value, linear uint64) (*value.Value, bool) {
	if linear >= val.ElementCount() {
		return nil, false
	}

	switch {
	case val.Kind() == format.KindCell:
		cv, err := val.Cell(linear)
		if err != nil {
			return nil, false
		}

		return cv, true
	case val.Kind() == format.KindStruct:
		// Struct element extraction would need a fields-only view; only
		// the identity index on a scalar struct is supported.
		if linear == 0 && val.ElementCount() == 1 {
			return val, true
		}

		return nil, false
	case val.Kind() == format.KindChar:
		s, err := val.Text()
		if err != nil || linear >= uint64(len(s)) {
			return nil, false
		}

		return value.Chars(s[linear : linear+1]), true
	case val.Kind().IsNumeric():
		f, err := val.Float64At(linear)
		if err != nil {
			return nil, false
		}

		return value.Scalar(f), true
	default:
		return nil, false
	}
}
