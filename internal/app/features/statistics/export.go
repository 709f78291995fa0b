// internal/app/features/statistics/export.go
package statistics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/learnboard/internal/app/analytics"
	"github.com/dalemusser/learnboard/internal/app/system/timeouts"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportData is everything that goes into one workbook.
type exportData struct {
	Pie     analytics.PieData
	Bar     []analytics.BarPoint
	Line    []analytics.LinePoint
	Mentees []models.User
}

// ServeExport handles GET /export.xlsx. It runs the pie, bar, line and
// mentee queries for the caller's scope and returns them as one workbook.
// When menteesCount is not supplied, the line chart uses the size of the
// mentee roster.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	p, q, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "statistics export")
	defer cancel()

	data, failure := h.collect(ctx, p, q, r.URL.Query().Has("menteesCount"))
	if failure != nil {
		writeJSON(w, http.StatusOK, failure)
		return
	}

	f, err := buildWorkbook(data, h.ExportMaxRows)
	if err != nil {
		h.Log.Error("statistics export: build workbook", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, analytics.Failure{Error: "Failed to build export", Details: err.Error()})
		return
	}
	defer f.Close()

	name := fmt.Sprintf("statistics-%s-%s.xlsx", q.CourseID.Hex(), time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := f.Write(w); err != nil {
		h.Log.Warn("statistics export: write", zap.Error(err))
	}
}

func (h *Handler) collect(ctx context.Context, p *models.Principal, q analytics.Query, haveCount bool) (exportData, *analytics.Failure) {
	var d exportData
	var f *analytics.Failure

	if d.Mentees, f = h.Engine.Mentees(ctx, p, q).Get(); f != nil {
		return d, f
	}
	if !haveCount {
		q.MenteesCount = len(d.Mentees)
	}
	if d.Pie, f = h.Engine.Pie(ctx, p, q).Get(); f != nil {
		return d, f
	}
	if d.Bar, f = h.Engine.Bar(ctx, p, q).Get(); f != nil {
		return d, f
	}
	if d.Line, f = h.Engine.Line(ctx, p, q).Get(); f != nil {
		return d, f
	}
	return d, nil
}

// buildWorkbook lays out one sheet per series. maxRows caps the rows of
// each list sheet; zero means no cap.
func buildWorkbook(d exportData, maxRows int) (*excelize.File, error) {
	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
		}
	}()

	if err := f.SetSheetName("Sheet1", "Pie"); err != nil {
		return nil, err
	}
	pie := [][]any{
		{"Status", "Count"},
		{"Evaluated", d.Pie[0]},
		{"Unreviewed", d.Pie[1]},
		{"Not submitted", d.Pie[2]},
	}
	if err := writeRows(f, "Pie", pie); err != nil {
		return nil, err
	}

	bar := [][]any{{"Assignment", "Submissions"}}
	for _, b := range capRows(d.Bar, maxRows) {
		bar = append(bar, []any{b.Assignment, b.Submissions})
	}
	if err := addSheet(f, "Bar", bar); err != nil {
		return nil, err
	}

	line := [][]any{{"Class", "Attendees", "Absentees"}}
	for _, l := range capRows(d.Line, maxRows) {
		line = append(line, []any{l.Class, l.Attendees, l.Absentees})
	}
	if err := addSheet(f, "Line", line); err != nil {
		return nil, err
	}

	mentees := [][]any{{"Username", "Name", "Email"}}
	for _, u := range capRows(d.Mentees, maxRows) {
		mentees = append(mentees, []any{u.Username, u.Name, u.Email})
	}
	if err := addSheet(f, "Mentees", mentees); err != nil {
		return nil, err
	}

	ok = true
	return f, nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func capRows[T any](s []T, max int) []T {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
