package prompts

import (
	"strings"
	"testing"
)

func TestBuild_RendersInput(t *testing.T) {
	p, err := Build(PromptQuiz, Input{
		StudyPlanID:   "sp-1",
		Grade:         "10",
		Subject:       "Geography",
		Topic:         "Capitals",
		Week:          "Week 1",
		LearningTasks: []Task{{Task: "Read the atlas", Duration: "30 minutes"}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(p.User, `"lessonPlanStudyPlanId": "sp-1"`) {
		t.Fatalf("study plan id not rendered:\n%s", p.User)
	}
	if !strings.Contains(p.User, "Read the atlas (30 minutes)") {
		t.Fatalf("tasks not rendered:\n%s", p.User)
	}
	if !strings.HasPrefix(p.Text(), p.System) {
		t.Fatalf("text must start with the system part")
	}
}

func TestBuild_Validates(t *testing.T) {
	if _, err := Build(PromptStudyTips, Input{Subject: "Math", Topic: "Fractions"}); err == nil {
		t.Fatalf("expected TipCount validation error")
	}
	if _, err := Build(PromptName("nope"), Input{}); err == nil {
		t.Fatalf("expected unknown prompt error")
	}
}

func TestFingerprint_Stable(t *testing.T) {
	in := Input{StudyPlanID: "sp", Subject: "Math", Topic: "Fractions", DurationMonths: 1, FrequencyPerWeek: 2}
	a, _ := Build(PromptLessonPlan, in)
	b, _ := Build(PromptLessonPlan, in)
	in.Topic = "Decimals"
	c, _ := Build(PromptLessonPlan, in)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal inputs must fingerprint equally")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different inputs must fingerprint differently")
	}
}

func TestRequire_ListsEveryMissingField(t *testing.T) {
	err := Require("Subject", "Topic", "TipCount")(Input{Topic: "  "})
	if err == nil || err.Error() != "missing Subject, Topic, TipCount" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Require("Grade")(Input{Grade: "10"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown field")
		}
	}()
	Require("Colour")
}

func TestCompile_RejectsUnknownField(t *testing.T) {
	_, err := compile(Spec{Name: "broken", Version: 1, System: "x", User: "{{.Colour}}"})
	if err == nil {
		t.Fatalf("expected unknown field to fail at compile")
	}
	if _, err := compile(Spec{Name: "v0", System: "x", User: "y"}); err == nil {
		t.Fatalf("expected version check")
	}
}
