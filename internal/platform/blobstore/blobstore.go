// Package blobstore caches generated JSON documents by name for offline replay.
package blobstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Store saves and loads named text blobs. Load reports a miss with ok=false
// and a nil error.
type Store interface {
	Save(ctx context.Context, name, content string) error
	Load(ctx context.Context, name string) (content string, ok bool, err error)
	Delete(ctx context.Context, name string) error
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeName lower-cases name and replaces anything outside [a-z0-9._-] with '_'.
func SanitizeName(name string) (string, error) {
	clean := unsafeName.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	clean = strings.Trim(clean, "._")
	if clean == "" {
		return "", fmt.Errorf("blobstore: invalid name %q", name)
	}
	return clean, nil
}

func LessonPlanKey(studyPlanID string) string { return "lessonplan-" + studyPlanID + ".json" }

func QuizKey(studyPlanID string) string { return "quiz-" + studyPlanID + ".json" }

func StudyTipsKey(grade, subject, topic string) string {
	return fmt.Sprintf("studytips-%s-%s-%s.json", grade, subject, topic)
}
