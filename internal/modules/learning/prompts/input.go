package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	StudyPlanID string
	Grade       string
	Subject     string
	Topic       string

	// Plan request
	DurationMonths   int
	FrequencyPerWeek int

	// Quiz grounding, taken from the stored lesson plan
	Week          string
	Goals         string
	Milestones    string
	Session       string
	LearningTasks []Task
	PracticeTasks []Task

	// Study tips
	TipCount int
}

type Task struct {
	Task     string
	Duration string
}
