package grading

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Students"
	AnswersSheet = "Answers"
)

var summaryHeaders = []string{"Student ID", "Correct", "Answered", "Score"}

var answerHeaders = []string{"Student ID", "Question ID", "Question", "Selected Option", "Correct", "Points"}

// ExportExcel writes the aggregates to an xlsx workbook with one row per
// student and one row per answer.
func ExportExcel(aggregates []models.StudentAggregate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(SummarySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to locate Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := writeRow(f, SummarySheet, 1, toCells(summaryHeaders)); err != nil {
		return nil, err
	}
	for i, agg := range aggregates {
		row := []interface{}{agg.StudentID, agg.CorrectCount, agg.TotalCount, agg.TotalScore}
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(AnswersSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeRow(f, AnswersSheet, 1, toCells(answerHeaders)); err != nil {
		return nil, err
	}
	rowIndex := 2
	for _, agg := range aggregates {
		for _, answer := range agg.Answers {
			points := 0.0
			if answer.IsCorrect {
				points = answer.Question.Score
			}
			row := []interface{}{
				answer.StudentID,
				answer.QuestionID,
				answer.Question.Text,
				answer.SelectedOption.Text,
				answer.IsCorrect,
				points,
			}
			if err := writeRow(f, AnswersSheet, rowIndex, row); err != nil {
				return nil, err
			}
			rowIndex++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func toCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}
