package codec

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const snippetLen = 120

// DecodeError reports generated JSON that could not be turned into an entity.
type DecodeError struct {
	Entity  string
	Field   string
	Size    int
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("decode ")
	b.WriteString(e.Entity)
	if e.Field != "" {
		b.WriteString(".")
		b.WriteString(e.Field)
	}
	fmt.Fprintf(&b, " (%d bytes, %q)", e.Size, e.Snippet)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(entity, field, raw string, err error) error {
	return &DecodeError{
		Entity:  entity,
		Field:   field,
		Size:    len(raw),
		Snippet: lo.Ellipsis(strings.TrimSpace(raw), snippetLen),
		Err:     err,
	}
}
