// file: internal/repositories/post_repository_test.go
package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePattern(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"percent", "100% done", `100\% done`},
		{"underscore", "snake_case", `snake\_case`},
		{"backslash", `C:\temp`, `C:\\temp`},
		{"mixed", `50%_\`, `50\%\_\\`},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EscapeLikePattern(tc.in))
		})
	}
}
