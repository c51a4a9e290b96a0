package options

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrValueType is returned when a value does not match the option's type.
var ErrValueType = errors.New("option value has wrong type")

// Value holds either an integer or a string.
type Value struct {
	typ Type
	i   int64
	s   string
}

// Int returns an integer value.
func Int(i int64) Value { return Value{typ: TypeInt, i: i} }

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// Type reports which variant v holds.
func (v Value) Type() Type { return v.typ }

// AsInt returns the integer and whether v holds one.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.typ == TypeInt
}

// AsString returns the string and whether v holds one.
func (v Value) AsString() (string, bool) {
	return v.s, v.typ == TypeString
}

// Text renders the bare value as it appears in build variable assignments.
func (v Value) Text() string {
	if v.typ == TypeString {
		return v.s
	}
	return strconv.FormatInt(v.i, 10)
}

// GoString renders strings quoted and integers bare.
func (v Value) GoString() string {
	if v.typ == TypeString {
		return strconv.Quote(v.s)
	}
	return v.Text()
}

func checkType(k Key, v Value) error {
	if k.Type() != v.typ {
		return fmt.Errorf("%w: %s expects %s, got %s", ErrValueType, k, k.Type(), v.typ)
	}
	return nil
}
