package request

import (
	"net/http"
	"strings"

	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

// DecodeForm fills dst from the request's url-encoded body.
func DecodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.PostForm)
}

// ParseStringList splits textarea input into one entry per line, trimming
// each. Blank lines are kept; empty input gives an empty list.
func ParseStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// JoinStringList is the inverse of ParseStringList for pre-filling a textarea.
func JoinStringList(values []string) string {
	return strings.Join(values, "\n")
}
