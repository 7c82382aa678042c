package cellml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentifier(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want bool
	}{
		{name: "simple", in: "membrane", want: true},
		{name: "underscore and digits", in: "i_Na_2", want: true},
		{name: "leading underscore", in: "_x", want: true},
		{name: "empty", in: "", want: false},
		{name: "leading digit", in: "2x", want: false},
		{name: "only underscores", in: "__", want: false},
		{name: "dash", in: "a-b", want: false},
		{name: "dot", in: "a.b", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsIdentifier(tc.in))
		})
	}
}
