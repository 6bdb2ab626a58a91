package trial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prestolab/bhv2/errs"
)

// Axis identifies which piece of trial metadata a filter rule tests.
type Axis uint8

const (
	AxisNumber Axis = iota
	AxisError
	AxisCondition
	AxisBlock
)

func (a Axis) String() string {
	switch a {
	case AxisNumber:
		return "trial"
	case AxisError:
		return "error"
	case AxisCondition:
		return "condition"
	case AxisBlock:
		return "block"
	default:
		return "unknown"
	}
}

type rule struct {
	axis    Axis
	include bool
	values  map[int]struct{}
}

func (r rule) matches(m Metadata) bool {
	var v int
	switch r.axis {
	case AxisNumber:
		v = m.Number
	case AxisError:
		v = m.Error
	case AxisCondition:
		v = m.Condition
	case AxisBlock:
		v = m.Block
	}
	_, ok := r.values[v]

	return ok
}

// Filter selects trials by metadata. Rules are parsed from compact specs:
//
//	E0        error code 0 (correct trials)
//	E1:3      error codes 1 through 3
//	c2,5,9    conditions 2, 5 and 9
//	B2        block 2
//	1:10      trial numbers 1 through 10
//
// Each spec is added as an include or an exclude rule. A trial is skipped
// when any exclude rule matches, or when some axis has include rules and
// none of them match. An empty filter keeps every trial.
type Filter struct {
	rules []rule
}

// NewFilter returns an empty filter that keeps everything.
func NewFilter() *Filter {
	return &Filter{}
}

// Empty reports whether the filter has no rules.
func (f *Filter) Empty() bool {
	return len(f.rules) == 0
}

// Include adds an include rule parsed from spec.
func (f *Filter) Include(spec string) error {
	return f.add(spec, true)
}

// Exclude adds an exclude rule parsed from spec.
func (f *Filter) Exclude(spec string) error {
	return f.add(spec, false)
}

func (f *Filter) add(spec string, include bool) error {
	axis, rest, err := splitAxis(spec)
	if err != nil {
		return err
	}

	values, err := ParseRange(rest)
	if err != nil {
		return fmt.Errorf("filter spec %q: %w", spec, err)
	}

	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	f.rules = append(f.rules, rule{axis: axis, include: include, values: set})

	return nil
}

func splitAxis(spec string) (Axis, string, error) {
	if spec == "" {
		return 0, "", fmt.Errorf("%w: empty filter spec", errs.ErrFilterSpec)
	}

	switch spec[0] {
	case 'E':
		return AxisError, spec[1:], nil
	case 'c':
		return AxisCondition, spec[1:], nil
	case 'B':
		return AxisBlock, spec[1:], nil
	}
	if spec[0] >= '0' && spec[0] <= '9' {
		return AxisNumber, spec, nil
	}

	return 0, "", fmt.Errorf("%w: unknown axis in %q", errs.ErrFilterSpec, spec)
}

// ParseRange parses a range expression into the list of values it covers.
// Accepted forms, also in combination: "5", "1:10", "1,3,5", "1:3,7".
func ParseRange(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty range", errs.ErrFilterSpec)
	}

	var values []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)

		lo, hi, ok := strings.Cut(part, ":")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", errs.ErrFilterSpec, lo)
		}
		if !ok {
			values = append(values, start)
			continue
		}

		stop, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("%w: bad range bound %q", errs.ErrFilterSpec, hi)
		}
		if stop < start {
			return nil, fmt.Errorf("%w: descending range %q", errs.ErrFilterSpec, part)
		}
		for v := start; v <= stop; v++ {
			values = append(values, v)
		}
	}

	return values, nil
}

// Skip reports whether a trial with the given metadata should be skipped.
//
// Exclude rules short-circuit: any match skips the trial. Include rules are
// grouped per axis; if an axis has include rules, the trial must match at
// least one of them. Axes without include rules are unconstrained.
func (f *Filter) Skip(m Metadata) bool {
	if len(f.rules) == 0 {
		return false
	}

	var hasInclude, passedInclude [4]bool
	for _, r := range f.rules {
		if !r.include {
			if r.matches(m) {
				return true
			}
			continue
		}

		hasInclude[r.axis] = true
		if r.matches(m) {
			passedInclude[r.axis] = true
		}
	}

	for axis := range hasInclude {
		if hasInclude[axis] && !passedInclude[axis] {
			return true
		}
	}

	return false
}
