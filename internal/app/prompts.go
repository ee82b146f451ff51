package app

import (
	"fmt"
	"strings"

	"smarttest-quiz-service/internal/domain"
)

var difficultyDescriptors = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "basic/easy",
	domain.DifficultyMedium: "intermediate/medium",
	domain.DifficultyHard:   "advanced/hard",
}

// BuildQuestionPrompt asks for count questions in the block layout the parser reads.
func BuildQuestionPrompt(subjectLabel string, difficulty domain.Difficulty, count int, language string) string {
	descriptor, ok := difficultyDescriptors[difficulty]
	if !ok {
		descriptor = difficultyDescriptors[domain.DifficultyMedium]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d multiple-choice questions about %s, written in %s.\n\n", count, subjectLabel, language)
	fmt.Fprintf(&sb, "Difficulty level: %s\n\n", descriptor)
	sb.WriteString("Use EXACTLY this format for every question:\n")
	for i := 1; i <= 2; i++ {
		fmt.Fprintf(&sb, "QUESTION %d:\n", i)
		sb.WriteString("Prompt: [your question here]\n")
		sb.WriteString("A) [option A]\nB) [option B]\nC) [option C]\nD) [option D]\n")
		sb.WriteString("CORRECT: [A, B, C or D]\n\n")
	}
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Questions suitable for secondary-school students\n")
	sb.WriteString("- Clear and objective language\n")
	sb.WriteString("- Exactly four options and only one correct option per question\n")
	sb.WriteString("- Follow the format EXACTLY, numbering blocks as QUESTION [number]:\n\n")
	fmt.Fprintf(&sb, "Subject: %s\nNumber of questions: %d\n", subjectLabel, count)
	return sb.String()
}

// BuildRecommendationPrompt asks for three dash-prefixed study tips.
func BuildRecommendationPrompt(subjectLabel string, accuracy int, band Band, language string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A student had %s performance (%d%% correct answers) in %s. ", band, accuracy, subjectLabel)
	fmt.Fprintf(&sb, "Write %d specific study recommendations in %s.\n\n", RecommendationCount, language)
	sb.WriteString("Format:\n")
	for i := 1; i <= RecommendationCount; i++ {
		fmt.Fprintf(&sb, "- [recommendation %d]\n", i)
	}
	sb.WriteString("\nRequirements:\n")
	sb.WriteString("- Practical and specific\n")
	sb.WriteString("- Suited to the performance level\n")
	sb.WriteString("- Motivating and constructive tone\n")
	sb.WriteString("- Focus on improving weak points\n")
	return sb.String()
}
