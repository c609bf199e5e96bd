package learning

// StudyTips is generated per grade/subject/topic and only cached as a blob.
type StudyTips struct {
	Grade   string   `json:"grade"`
	Subject string   `json:"subject"`
	Topic   string   `json:"topic"`
	Tips    []string `json:"tips"`
}
