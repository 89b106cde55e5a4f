package entmap

import (
	"regexp"
	"strconv"
)

// reItemKey matches indexed array keys of the form item[<n>].
var reItemKey = regexp.MustCompile(`^item\[\d+\]$`)

// NormalizeItemArrays returns a deep copy of the entity in which every
// nested object's item[<n>] keys are renumbered to a contiguous
// item[0..k-1] sequence in appearance order, and the sibling scalar
// "num" key, when present, is set to the resulting count. Renumbering
// is depth-first so nested arrays at different levels are independent,
// and the operation is idempotent.
func NormalizeItemArrays(entity *Value) *Value {
	if entity.Kind() != KindObject {
		return entity.Clone()
	}

	fields := entity.Fields()
	out := make([]Field, 0, len(fields))
	numIdx := -1
	count := 0

	for _, f := range fields {
		key := f.Key
		if f.Key == "num" && f.Value.Kind() != KindObject {
			numIdx = len(out)
		} else if reItemKey.MatchString(f.Key) {
			key = "item[" + strconv.Itoa(count) + "]"
			count++
		}

		value := f.Value
		if value.Kind() == KindObject {
			value = NormalizeItemArrays(value)
		} else {
			value = value.Clone()
		}
		out = append(out, Field{Key: key, Value: value})
	}

	if numIdx >= 0 {
		out[numIdx].Value = Int(int64(count))
	}
	return Object(out...)
}
