package prompts

import (
	"fmt"
	"strings"
)

type Validator func(Input) error

// Require fails when any named Input field is blank or, for counts, not positive.
// Unknown field names fail at registration.
func Require(fields ...string) Validator {
	for _, f := range fields {
		if _, ok := field(Input{}, f); !ok {
			panic(fmt.Sprintf("prompts: unknown input field %q", f))
		}
	}
	return func(in Input) error {
		var missing []string
		for _, f := range fields {
			if v, _ := field(in, f); !v {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

// field reports whether the named field is set on in.
func field(in Input, name string) (set, known bool) {
	switch name {
	case "StudyPlanID":
		return strings.TrimSpace(in.StudyPlanID) != "", true
	case "Grade":
		return strings.TrimSpace(in.Grade) != "", true
	case "Subject":
		return strings.TrimSpace(in.Subject) != "", true
	case "Topic":
		return strings.TrimSpace(in.Topic) != "", true
	case "DurationMonths":
		return in.DurationMonths > 0, true
	case "FrequencyPerWeek":
		return in.FrequencyPerWeek > 0, true
	case "TipCount":
		return in.TipCount > 0, true
	}
	return false, false
}
