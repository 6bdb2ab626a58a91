package query

import (
	"bytes"
	"math"

	gojson "github.com/goccy/go-json"

	"github.com/prestolab/bhv2/format"
	"github.com/prestolab/bhv2/value"
)

// jsonObject is an insertion-ordered JSON object. Struct fields keep their
// wire order in the output, which a map would not preserve.
type jsonObject []jsonMember

type jsonMember struct {
	key string
	val any
}

func (o jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := gojson.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := gojson.Marshal(m.val)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// jsonNumber maps a MATLAB double onto JSON: NaN and the infinities become
// null, whole numbers print as integers, the rest as floats.
func jsonNumber(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return int64(f)
	}

	return f
}

// jsonValue converts a decoded value into a tree of JSON-marshalable Go
// values:
//
//   - char arrays become strings
//   - logicals become booleans
//   - numeric scalars unwrap, numeric arrays become arrays
//   - scalar structs become objects, struct arrays arrays of objects;
//     hole slots are omitted
//   - scalar cells unwrap, cell arrays become arrays
func jsonValue(v *value.Value) any {
	if v == nil {
		return nil
	}

	switch {
	case v.Kind() == format.KindChar:
		s, err := v.Text()
		if err != nil {
			return nil
		}

		return s

	case v.Kind() == format.KindLogical:
		n := v.ElementCount()
		if n == 1 {
			f, _ := v.Float64At(0)
			return f != 0
		}

		out := make([]any, 0, n)
		for i := uint64(0); i < n; i++ {
			f, _ := v.Float64At(i)
			out = append(out, f != 0)
		}

		return out

	case v.Kind().IsNumeric():
		n := v.ElementCount()
		if n == 1 {
			f, _ := v.Float64At(0)
			return jsonNumber(f)
		}

		out := make([]any, 0, n)
		for i := uint64(0); i < n; i++ {
			f, _ := v.Float64At(i)
			out = append(out, jsonNumber(f))
		}

		return out

	case v.Kind() == format.KindStruct:
		if v.ElementCount() == 1 {
			return jsonStructElem(v, 0)
		}

		out := make([]any, 0, v.ElementCount())
		for elem := uint64(0); elem < v.ElementCount(); elem++ {
			out = append(out, jsonStructElem(v, elem))
		}

		return out

	case v.Kind() == format.KindCell:
		if v.ElementCount() == 1 {
			cv, err := v.Cell(0)
			if err != nil {
				return nil
			}

			return jsonValue(cv)
		}

		out := make([]any, 0, v.ElementCount())
		for i := uint64(0); i < v.ElementCount(); i++ {
			cv, err := v.Cell(i)
			if err != nil {
				out = append(out, nil)
				continue
			}
			out = append(out, jsonValue(cv))
		}

		return out

	default:
		return nil
	}
}

func jsonStructElem(v *value.Value, elem uint64) jsonObject {
	obj := make(jsonObject, 0, v.FieldWidth())
	for slot := uint64(0); slot < v.FieldWidth(); slot++ {
		fs, err := v.FieldAt(elem, slot)
		if err != nil || fs.IsHole() {
			continue
		}
		obj = append(obj, jsonMember{key: fs.Name, val: jsonValue(fs.Value)})
	}

	return obj
}

func marshal(tree any, compact bool) ([]byte, error) {
	if compact {
		return gojson.Marshal(tree)
	}

	return gojson.MarshalIndent(tree, "", "  ")
}

// MarshalValue renders one decoded value as JSON.
func MarshalValue(v *value.Value, compact bool) ([]byte, error) {
	return marshal(jsonValue(v), compact)
}

// MarshalResults renders query results as JSON: no results as null, a
// single result as its bare value, multiple results as an object keyed by
// result path.
func MarshalResults(results []Result, compact bool) ([]byte, error) {
	switch len(results) {
	case 0:
		return []byte("null"), nil
	case 1:
		return marshal(jsonValue(results[0].Value), compact)
	}

	obj := make(jsonObject, 0, len(results))
	for _, r := range results {
		obj = append(obj, jsonMember{key: r.Path, val: jsonValue(r.Value)})
	}

	return marshal(obj, compact)
}
