package codec

import (
	"encoding/json"
	"errors"

	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/samber/lo"
)

const EntityStudyTips = "study_tips"

type studyTipsWire struct {
	Grade   text `json:"grade"`
	Subject text `json:"subject"`
	Topic   text `json:"topic"`
	Tips    list `json:"tips"`
}

// DecodeStudyTips drops blank and repeated tips; at least one must remain.
func DecodeStudyTips(raw string) (*learning.StudyTips, error) {
	var w studyTipsWire
	if err := json.Unmarshal([]byte(Clean(raw)), &w); err != nil {
		return nil, decodeErr(EntityStudyTips, "", raw, err)
	}
	tips := lo.Uniq(lo.Compact(w.Tips.Values))
	if len(tips) == 0 {
		return nil, decodeErr(EntityStudyTips, "tips", raw, errors.New("no tips"))
	}
	return &learning.StudyTips{
		Grade:   w.Grade.String(),
		Subject: w.Subject.String(),
		Topic:   w.Topic.String(),
		Tips:    tips,
	}, nil
}

func EncodeStudyTips(tips *learning.StudyTips) (string, error) {
	if tips == nil {
		return "", errors.New("encode study tips: nil")
	}
	b, err := json.Marshal(tips)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
