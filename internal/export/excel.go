package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fmuoria/resume-ranker/internal/models"
)

const (
	scoresSheet  = "Resume Scores"
	summarySheet = "Summary"

	// shortHeaderWords is how many leading words of a criterion make up its
	// column header.
	shortHeaderWords = 3
)

// WriteReport renders the ranked report as an xlsx workbook and writes it to
// w. The workbook is built entirely in memory.
func WriteReport(w io.Writer, report models.RankedReport) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", scoresSheet)
	f.NewSheet(summarySheet)

	if err := createScoresSheet(f, report); err != nil {
		return fmt.Errorf("failed to create scores sheet: %w", err)
	}

	if err := createSummarySheet(f, report); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

// createScoresSheet writes one row per ranked candidate: name, one column per
// criterion, total.
func createScoresSheet(f *excelize.File, report models.RankedReport) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	headers := []string{"Candidate Name"}
	for _, criterion := range report.Criteria {
		headers = append(headers, shortHeader(criterion))
	}
	headers = append(headers, "Total Score")

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(scoresSheet, cell, header)
		f.SetCellStyle(scoresSheet, cell, cell, headerStyle)
	}

	for i, candidate := range report.Candidates {
		row := i + 2

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		f.SetCellValue(scoresSheet, cell, candidate.Name)

		for j, score := range candidate.Scores {
			cell, err := excelize.CoordinatesToCellName(j+2, row)
			if err != nil {
				return err
			}
			f.SetCellValue(scoresSheet, cell, score)
		}

		cell, err = excelize.CoordinatesToCellName(len(report.Criteria)+2, row)
		if err != nil {
			return err
		}
		f.SetCellValue(scoresSheet, cell, candidate.Total)
	}

	f.SetColWidth(scoresSheet, "A", "A", 25)

	// Freeze the header row
	f.SetPanes(scoresSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

// createSummarySheet writes report metadata, criteria, and per-candidate
// failures.
func createSummarySheet(f *excelize.File, report models.RankedReport) error {
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	f.SetColWidth(summarySheet, "A", "A", 25)
	f.SetColWidth(summarySheet, "B", "B", 60)

	row := 1
	writeLabeled := func(label string, value interface{}) {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), label)
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	writeLabeled("Generated:", report.GeneratedAt)
	writeLabeled("Criteria Count:", len(report.Criteria))
	writeLabeled("Candidates Scored:", len(report.Candidates))
	writeLabeled("Candidates Failed:", len(report.Failures))
	row++

	f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Criteria")
	f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	row++
	for i, criterion := range report.Criteria {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), criterion)
		row++
	}

	if len(report.Failures) > 0 {
		row++
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Failures")
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		row++
		for _, failure := range report.Failures {
			f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), failure.Name)
			f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), failure.Reason)
			row++
		}
	}

	return nil
}

// shortHeader abbreviates a criterion to its first words so the column header
// stays readable.
func shortHeader(criterion string) string {
	words := strings.Fields(criterion)
	if len(words) <= shortHeaderWords {
		return criterion
	}
	return strings.Join(words[:shortHeaderWords], " ") + "..."
}
