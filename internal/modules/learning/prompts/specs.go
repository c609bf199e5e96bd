package prompts

func specs() []Spec {
	return []Spec{lessonPlanSpec, quizSpec, studyTipsSpec}
}

var lessonPlanSpec = Spec{
	Name:    PromptLessonPlan,
	Version: 1,
	System: `
You are a study coach planning the first week of a study plan.
Return JSON only. Do not wrap it in code fences and do not write the word "json".`,
	User: `
Create a first-week lesson plan for a grade {{.Grade}} student studying {{.Subject}} on the topic {{.Topic}}.
The student studies for {{.DurationMonths}} months, {{.FrequencyPerWeek}} times per week.

Use exactly this structure:
{
  "lessonPlanStudyPlanId": "{{.StudyPlanID}}",
  "grade": "{{.Grade}}",
  "subject": "{{.Subject}}",
  "topic": "{{.Topic}}",
  "week": "Week 1",
  "goals": "...",
  "milestones": "...",
  "resources": "...",
  "timetable": {
    "session": "...",
    "learning_tasks": [{"task": "...", "duration": "30 minutes"}],
    "practice_tasks": [{"task": "...", "duration": "20 minutes"}]
  }
}
Give three learning tasks and two practice tasks.`,
	Require: []string{"StudyPlanID", "Subject", "Topic"},
}

var quizSpec = Spec{
	Name:    PromptQuiz,
	Version: 1,
	System: `
You write short quizzes that check whether a student understood one week of study.
Return JSON only. Do not wrap it in code fences and do not write the word "json".`,
	User: `
Create a quiz for a grade {{.Grade}} student studying {{.Subject}} on the topic {{.Topic}} in {{.Week}}.

Lesson plan:
- Goals: {{.Goals}}
- Milestones: {{.Milestones}}
- Session: {{.Session}}
- Learning tasks:
{{- range .LearningTasks}}
  - {{.Task}} ({{.Duration}})
{{- end}}
- Practice tasks:
{{- range .PracticeTasks}}
  - {{.Task}}
{{- end}}

Include multiple choice questions, short answer questions with a short expected answer,
and one practice task. Use exactly this structure:
{
  "quiz_title": "...",
  "lessonPlanStudyPlanId": "{{.StudyPlanID}}",
  "questions": [
    {"type": "multiple_choice", "question": "...", "options": ["...", "..."], "correct_answer": "..."},
    {"type": "short_answer", "question": "...", "correct_answer": "..."},
    {"type": "practice_task", "task": "..."}
  ]
}`,
	Require: []string{"StudyPlanID", "Topic"},
}

var studyTipsSpec = Spec{
	Name:    PromptStudyTips,
	Version: 1,
	System: `
You give practical, encouraging study advice.
Return JSON only. Do not wrap it in code fences and do not write the word "json".`,
	User: `
Generate {{.TipCount}} study tips for a grade {{.Grade}} student, subject {{.Subject}}, topic {{.Topic}}.
Use exactly this structure:
{
  "grade": "{{.Grade}}",
  "subject": "{{.Subject}}",
  "topic": "{{.Topic}}",
  "tips": ["...", "..."]
}`,
	Require: []string{"Subject", "Topic", "TipCount"},
}
