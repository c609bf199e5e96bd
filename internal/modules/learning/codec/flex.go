package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// text accepts a JSON string, number, bool or array of those. Arrays are
// joined with newlines; null leaves it unset.
type text struct {
	Value string
	Set   bool
}

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var items []text
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if v := strings.TrimSpace(it.Value); v != "" {
				parts = append(parts, v)
			}
		}
		t.Value, t.Set = strings.Join(parts, "\n"), true
		return nil
	}
	v, err := scalar(b)
	if err != nil {
		return err
	}
	t.Value, t.Set = v, true
	return nil
}

func (t text) String() string { return strings.TrimSpace(t.Value) }

func (t text) Ptr() *string {
	if !t.Set {
		return nil
	}
	v := t.String()
	return &v
}

// list accepts an array of scalars or a single scalar. Set reports whether
// the key was present with a non-null value.
type list struct {
	Values []string
	Set    bool
}

func (l *list) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make([]string, 0, len(raw))
		for _, r := range raw {
			v, err := scalar(bytes.TrimSpace(r))
			if err != nil {
				return err
			}
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		l.Values, l.Set = out, true
		return nil
	}
	v, err := scalar(b)
	if err != nil {
		return err
	}
	l.Values, l.Set = []string{strings.TrimSpace(v)}, true
	return nil
}

func scalar(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	switch b[0] {
	case '"':
		var s string
		err := json.Unmarshal(b, &s)
		return s, err
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return "", err
		}
		return strconv.FormatBool(v), nil
	case 'n':
		return "", nil
	case '{', '[':
		return "", fmt.Errorf("expected a scalar, got %s", string(b[:1]))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// first returns the first set value among keys that name the same field.
func first(vals ...text) text {
	for _, v := range vals {
		if v.Set {
			return v
		}
	}
	return text{}
}
