package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fitai/fitai/internal/progress"
	"github.com/jung-kurt/gofpdf"
)

const (
	fontName        = "Arial"
	recentRowsLimit = 14
	noData          = "No data"
)

// RenderProgressPDF lays out a progress analysis on A4 pages using the core
// Arial font, so only Latin-1 text renders faithfully.
func RenderProgressPDF(name string, analysis *progress.Analysis, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Progress Report", false)
	pdf.SetCreator("FitAI", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont(fontName, "B", 16)
	pdf.Cell(0, 10, "Progress Report")
	pdf.Ln(10)

	pdf.SetFont(fontName, "", 11)
	if name != "" {
		pdf.Cell(0, 7, tr(name))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", analysis.Period.Start, analysis.Period.End))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Generated: "+generatedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(12)

	section(pdf, "Summary")
	s := analysis.Summary
	line(pdf, fmt.Sprintf("Activity logs: %d", s.TotalLogs))
	line(pdf, fmt.Sprintf("Meal plans: %d", s.TotalMealPlans))
	line(pdf, fmt.Sprintf("Workout plans: %d", s.TotalWorkoutPlans))
	line(pdf, fmt.Sprintf("Average calories per day: %d kcal", s.AverageCaloriesPerDay))
	line(pdf, fmt.Sprintf("Consistency score: %d%%", s.ConsistencyScore))
	line(pdf, "Weight change: "+weightDelta(analysis.Trends.Weight))
	pdf.Ln(6)

	section(pdf, "Recommendations")
	if len(analysis.Recommendations) == 0 {
		line(pdf, "Keep up the good work.")
	}
	for _, rec := range analysis.Recommendations {
		pdf.MultiCell(0, 6, tr("- "+rec), "", "L", false)
	}
	pdf.Ln(6)

	section(pdf, "Recent weight")
	weightRows := make([][2]string, 0, len(analysis.Trends.Weight))
	for _, p := range analysis.Trends.Weight {
		weightRows = append(weightRows, [2]string{p.Date, formatValue(p.Weight, "%.1f kg")})
	}
	table(pdf, [2]string{"Date", "Weight"}, recent(weightRows))
	pdf.Ln(6)

	section(pdf, "Recent food calories")
	calorieRows := make([][2]string, 0, len(analysis.Trends.Calories))
	for _, p := range analysis.Trends.Calories {
		calorieRows = append(calorieRows, [2]string{p.Date, formatValue(p.Calories, "%.0f kcal")})
	}
	table(pdf, [2]string{"Date", "Calories"}, recent(calorieRows))
	pdf.Ln(6)

	section(pdf, "Recent exercise")
	exerciseRows := make([][2]string, 0, len(analysis.Trends.Exercise))
	for _, p := range analysis.Trends.Exercise {
		exerciseRows = append(exerciseRows, [2]string{p.Date, formatValue(p.Calories, "%.0f kcal")})
	}
	table(pdf, [2]string{"Date", "Burned"}, recent(exerciseRows))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(fontName, "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont(fontName, "", 10)
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.Cell(0, 6, text)
	pdf.Ln(5)
}

func table(pdf *gofpdf.Fpdf, header [2]string, rows [][2]string) {
	if len(rows) == 0 {
		line(pdf, noData)
		return
	}

	pdf.SetFont(fontName, "B", 9)
	pdf.CellFormat(40, 6, header[0], "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, header[1], "1", 1, "C", false, 0, "")

	pdf.SetFont(fontName, "", 9)
	for _, row := range rows {
		pdf.CellFormat(40, 6, row[0], "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "1", 1, "C", false, 0, "")
	}
}

// recent keeps the last recentRowsLimit rows.
func recent(rows [][2]string) [][2]string {
	if len(rows) > recentRowsLimit {
		return rows[len(rows)-recentRowsLimit:]
	}
	return rows
}

func formatValue(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// weightDelta compares the first and last recorded weights.
func weightDelta(points []progress.WeightPoint) string {
	var first, last *float64
	for _, p := range points {
		if p.Weight == nil {
			continue
		}
		if first == nil {
			first = p.Weight
		}
		last = p.Weight
	}
	if first == nil {
		return noData
	}
	return fmt.Sprintf("%+.1f kg", *last-*first)
}
