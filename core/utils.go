package core

import (
	"reflect"
	"strings"

	"github.com/kat-co/vala"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// IsNotNil is a vala checker accepting any value: struct values are never nil,
// typed nil pointers, maps, slices, funcs and chans are.
func IsNotNil(v interface{}, name string) vala.Checker {
	return func() (bool, string) {
		ok := v != nil
		if ok {
			switch rv := reflect.ValueOf(v); rv.Kind() {
			case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
				ok = !rv.IsNil()
			}
		}
		return ok, "Parameter was nil: " + name
	}
}
