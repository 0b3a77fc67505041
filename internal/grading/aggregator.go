// Package grading turns graded answer records into per-student summaries.
package grading

import "github.com/SAP-F-2025/quiz-service/internal/models"

// Aggregate groups answers by student in order of first appearance and
// computes counts and the earned score for each group. Only correct answers
// earn their question's score. Duplicate answers are counted as they come.
// The input slice is not modified.
func Aggregate(answers []models.AnswerRecord) []models.StudentAggregate {
	aggregates := make([]models.StudentAggregate, 0)
	index := make(map[uint]int)

	for _, answer := range answers {
		i, seen := index[answer.StudentID]
		if !seen {
			i = len(aggregates)
			index[answer.StudentID] = i
			aggregates = append(aggregates, models.StudentAggregate{StudentID: answer.StudentID})
		}

		agg := &aggregates[i]
		agg.Answers = append(agg.Answers, answer)
		agg.TotalCount++
		if answer.IsCorrect {
			agg.CorrectCount++
			agg.TotalScore += answer.Question.Score
		}
	}

	return aggregates
}

// Summary holds totals across a set of student aggregates.
type Summary struct {
	StudentCount int     `json:"student_count"`
	AnswerCount  int     `json:"answer_count"`
	CorrectCount int     `json:"correct_count"`
	AverageScore float64 `json:"average_score"`
	CorrectRate  float64 `json:"correct_rate"`
}

func Summarize(aggregates []models.StudentAggregate) Summary {
	s := Summary{StudentCount: len(aggregates)}
	if len(aggregates) == 0 {
		return s
	}

	var totalScore float64
	for _, agg := range aggregates {
		s.AnswerCount += agg.TotalCount
		s.CorrectCount += agg.CorrectCount
		totalScore += agg.TotalScore
	}
	s.AverageScore = totalScore / float64(len(aggregates))
	if s.AnswerCount > 0 {
		s.CorrectRate = float64(s.CorrectCount) / float64(s.AnswerCount)
	}
	return s
}
