package generator

import (
	"fmt"
	"strings"
)

// TopicPrompt asks for a general exam on a topic.
func TopicPrompt(topic string, count int) string {
	return fmt.Sprintf(
		"Generate Exam on topic : %s with Question and Options along with correct answer in JSON format "+
			"as an array of objects with keys question, options and answer, with difficulty level high but "+
			"not very long questions and no need for difficulty key, (Give %d)",
		topic, count)
}

// CourseEndPrompt asks for a final course assessment focused on skills.
func CourseEndPrompt(topic, difficulty string, skills []string, count int) string {
	if difficulty == "" {
		difficulty = "intermediate"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a final assessment for the course on topic: %q.\n", topic)
	fmt.Fprintf(&b, "This is a %s level assessment.\n", difficulty)
	if len(skills) > 0 {
		fmt.Fprintf(&b, "Focus on the following skills: %s.\n", strings.Join(skills, ", "))
	}
	fmt.Fprintf(&b, "Provide exactly %d questions in JSON format as an array of objects.\n", count)
	b.WriteString("Each question must include:\n")
	b.WriteString("- The question text (key: question)\n")
	b.WriteString("- 4 options (key: options)\n")
	b.WriteString("- The correct answer, copied verbatim from the options (key: answer).\n")
	b.WriteString("No need to include a 'difficulty' key. Keep questions concise but challenging.")
	return b.String()
}
