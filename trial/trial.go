// Package trial interprets the variables of a BHV2 session file as
// MonkeyLogic trials.
//
// MonkeyLogic writes one struct variable per trial, named "Trial1",
// "Trial2" and so on, interleaved with session-level variables (MLConfig,
// TrialRecord, ...). This package iterates the trial variables, extracts
// the standard metadata fields (TrialError, Condition, Block) and applies
// metadata filters, leaving everything else to the generic bhv2 layer.
package trial

import (
	"math"
	"strconv"
	"strings"

	"github.com/prestolab/bhv2"
	"github.com/prestolab/bhv2/value"
)

// metadataFields are the struct fields decoded in metadata-only reads.
var metadataFields = []string{"TrialError", "Condition", "Block"}

// Metadata is the per-trial information MonkeyLogic filtering operates on.
// Fields missing from the trial struct are -1.
type Metadata struct {
	Number    int // from the variable name, 1-based
	Error     int // TrialError field
	Condition int // Condition field
	Block     int // Block field
}

// Trial is one decoded trial. Data is nil for metadata-only reads.
type Trial struct {
	Metadata
	Data *value.Value
}

// Reader iterates the trials of an open BHV2 session, skipping non-trial
// variables and trials rejected by the filter.
//
// The Reader borrows the session: it advances the session's cursor but does
// not own or close it.
type Reader struct {
	f      *bhv2.File
	filter *Filter
}

// NewReader wraps an open session for trial iteration.
func NewReader(f *bhv2.File) *Reader {
	return &Reader{f: f, filter: NewFilter()}
}

// SetFilter installs the metadata filter applied by Next and NextMetadata.
// A nil filter keeps every trial.
func (r *Reader) SetFilter(f *Filter) {
	if f == nil {
		f = NewFilter()
	}
	r.filter = f
}

// Next reads the next trial that passes the filter, with its full data
// decoded. It returns io.EOF when no more trials remain.
func (r *Reader) Next() (*Trial, error) {
	return r.next(true)
}

// NextMetadata reads the next trial that passes the filter, decoding only
// the metadata fields; Data is left nil. Bulk trial data (analog signals,
// eye traces) is structurally skipped, which is much cheaper than a full
// decode. It returns io.EOF when no more trials remain.
func (r *Reader) NextMetadata() (*Trial, error) {
	return r.next(false)
}

func (r *Reader) next(withData bool) (*Trial, error) {
	for {
		name, err := r.f.NextName()
		if err != nil {
			return nil, err
		}

		num, ok := trialNumber(name)
		if !ok {
			if err := r.f.SkipValue(); err != nil {
				return nil, err
			}
			continue
		}

		var v *value.Value
		if withData {
			v, err = r.f.ReadValue()
		} else {
			v, err = r.f.ReadValueSelective(metadataFields...)
		}
		if err != nil {
			return nil, err
		}

		t := &Trial{Metadata: extractMetadata(num, v)}
		if r.filter.Skip(t.Metadata) {
			continue
		}
		if withData {
			t.Data = v
		}

		return t, nil
	}
}

// Rewind resets the underlying session to the first variable.
func (r *Reader) Rewind() error {
	return r.f.Rewind()
}

// trialNumber parses a "Trial<N>" variable name. Names like "TrialRecord"
// do not qualify; the suffix must be all digits.
func trialNumber(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, "Trial")
	if !ok || digits == "" {
		return 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

func extractMetadata(num int, v *value.Value) Metadata {
	return Metadata{
		Number:    num,
		Error:     metadataInt(v, "TrialError"),
		Condition: metadataInt(v, "Condition"),
		Block:     metadataInt(v, "Block"),
	}
}

func metadataInt(v *value.Value, field string) int {
	fv, err := v.Field(field, 0)
	if err != nil {
		return -1
	}

	f := value.ScalarFloat(fv)
	if math.IsNaN(f) {
		return -1
	}

	return int(f)
}
