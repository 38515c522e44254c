package label

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LabelValueKind discriminates the shapes a label value can take.
type LabelValueKind int

const (
	LabelKindString LabelValueKind = iota
	LabelKindStringList
	LabelKindNumber
	LabelKindObject
)

// LabelValue is one label's value inside an annotation. The wire format is
// heterogeneous: a plain string, a list of strings, a number, or a structured
// object (time-series annotations). LabelValue keeps the decoded shape
// explicit instead of passing raw JSON around, so malformed values are
// rejected at the decode boundary.
type LabelValue struct {
	kind    LabelValueKind
	str     string
	strList []string
	num     float64
	obj     map[string]any
}

// StringValue creates a string-shaped label value.
func StringValue(s string) LabelValue { return LabelValue{kind: LabelKindString, str: s} }

// StringListValue creates a list-shaped label value.
func StringListValue(ss ...string) LabelValue {
	return LabelValue{kind: LabelKindStringList, strList: ss}
}

// NumberValue creates a number-shaped label value.
func NumberValue(n float64) LabelValue { return LabelValue{kind: LabelKindNumber, num: n} }

// ObjectValue creates a structured label value, such as a time-series
// annotation with ranges and channels.
func ObjectValue(obj map[string]any) LabelValue { return LabelValue{kind: LabelKindObject, obj: obj} }

// Kind returns the shape of the value.
func (v LabelValue) Kind() LabelValueKind { return v.kind }

// String returns the string form and whether the value is string-shaped.
func (v LabelValue) String() (string, bool) { return v.str, v.kind == LabelKindString }

// StringList returns the list form and whether the value is list-shaped.
func (v LabelValue) StringList() ([]string, bool) { return v.strList, v.kind == LabelKindStringList }

// Number returns the numeric form and whether the value is number-shaped.
func (v LabelValue) Number() (float64, bool) { return v.num, v.kind == LabelKindNumber }

// Object returns the structured form and whether the value is object-shaped.
func (v LabelValue) Object() (map[string]any, bool) { return v.obj, v.kind == LabelKindObject }

// MarshalJSON writes the value back in its original wire shape.
func (v LabelValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case LabelKindString:
		return json.Marshal(v.str)
	case LabelKindStringList:
		if v.strList == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.strList)
	case LabelKindNumber:
		return json.Marshal(v.num)
	case LabelKindObject:
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("unknown label value kind: %d", v.kind)
	}
}

// UnmarshalJSON accepts a string, a list of strings, a number, or an object.
// Anything else (null, bool, mixed-type list) is rejected.
func (v *LabelValue) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case string:
		*v = StringValue(value)
		return nil
	case json.Number:
		n, err := value.Float64()
		if err != nil {
			return fmt.Errorf("label value is not a valid number: %w", err)
		}
		*v = NumberValue(n)
		return nil
	case []any:
		list := make([]string, len(value))
		for i, item := range value {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("label value list contains a non-string element at index %d", i)
			}
			list[i] = s
		}
		*v = StringListValue(list...)
		return nil
	case map[string]any:
		*v = ObjectValue(value)
		return nil
	default:
		return fmt.Errorf("label value has unsupported shape %T", raw)
	}
}

// Equal reports whether two label values have the same shape and content.
func (v LabelValue) Equal(other LabelValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case LabelKindString:
		return v.str == other.str
	case LabelKindNumber:
		return v.num == other.num
	case LabelKindStringList:
		if len(v.strList) != len(other.strList) {
			return false
		}
		for i := range v.strList {
			if v.strList[i] != other.strList[i] {
				return false
			}
		}
		return true
	case LabelKindObject:
		a, err := json.Marshal(v.obj)
		if err != nil {
			return false
		}
		b, err := json.Marshal(other.obj)
		if err != nil {
			return false
		}
		return string(a) == string(b)
	}
	return false
}
