package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type valueLogger struct{}

func TestIsNotNil(t *testing.T) {
	var (
		nilPtr *valueLogger
		nilMap map[string]int
		nilFn  func()
	)
	tests := []struct {
		name string
		v    interface{}
		want bool
	}{
		{name: "nil", v: nil},
		{name: "typed nil pointer", v: nilPtr},
		{name: "nil map", v: nilMap},
		{name: "nil func", v: nilFn},
		{name: "struct value", v: valueLogger{}, want: true},
		{name: "pointer", v: &valueLogger{}, want: true},
		{name: "int", v: 0, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := IsNotNil(tt.v, "dep")()
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, "Parameter was nil: dep", msg)
		})
	}
}
