package query

import (
	"errors"
	"io"

	"github.com/prestolab/bhv2"
)

// ExecuteFile runs the query over every variable of an open session,
// skipping variables the first segment cannot match without decoding them.
// The session is consumed to the end.
func ExecuteFile(f *bhv2.File, q *Query) ([]Result, error) {
	var vars []Variable
	for {
		name, err := f.NextName()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if !q.MatchesVariable(name) {
			if err := f.SkipValue(); err != nil {
				return nil, err
			}
			continue
		}

		v, err := f.ReadValue()
		if err != nil {
			return nil, err
		}
		vars = append(vars, Variable{Name: name, Value: v})
	}

	return q.Execute(vars), nil
}

// ListVariables reads the name and shape of every variable for
// directory-style listings. Struct variables decode as shells with every
// field slot left a hole, so bulk trial data is skipped rather than
// materialized; shape accessors (Dims, ElementCount, FieldWidth) still see
// the full wire geometry.
func ListVariables(f *bhv2.File) ([]Variable, error) {
	var vars []Variable
	for {
		name, err := f.NextName()
		if errors.Is(err, io.EOF) {
			return vars, nil
		}
		if err != nil {
			return nil, err
		}

		v, err := f.ReadValueSelective()
		if err != nil {
			return nil, err
		}
		vars = append(vars, Variable{Name: name, Value: v})
	}
}
