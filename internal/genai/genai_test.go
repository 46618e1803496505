package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "bold and italic", in: "**You** did *great*!", want: "You did great!"},
		{name: "headers", in: "## Today\nKeep going", want: "Today\nKeep going"},
		{name: "code fence", in: "Hi\n```go\nfmt.Println()\n```\nbye", want: "Hi\n\nbye"},
		{name: "control chars keep newline and tab", in: "a\x00b\x07c\n\td\x7f", want: "abc\n\td"},
		{name: "collapse newlines", in: "one\n\n\n\n\ntwo", want: "one\n\ntwo"},
		{name: "crlf", in: "one\r\n\r\n\r\ntwo", want: "one\n\ntwo"},
		{name: "trim", in: "  \n hello \n ", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}
