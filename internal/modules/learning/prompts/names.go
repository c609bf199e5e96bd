package prompts

type PromptName string

const (
	PromptLessonPlan PromptName = "lesson_plan"
	PromptQuiz       PromptName = "quiz"
	PromptStudyTips  PromptName = "study_tips"
)
