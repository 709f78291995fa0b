package analytics

import (
	"time"

	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-day format used on chart axes.
const DateLayout = "2006-01-02"

// DateKey truncates t to its UTC calendar day.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// PieData is [evaluated, unreviewed, notSubmitted].
type PieData [3]int64

// LinePoint is one class on the attendance line chart.
type LinePoint struct {
	Class     string `json:"class"`
	Attendees int    `json:"attendees"`
	Absentees int    `json:"absentees"`
}

// BarPoint is one assignment on the submissions bar chart.
type BarPoint struct {
	Assignment  string `json:"assignment"`
	Submissions int    `json:"submissions"`
}

// StudentProgress summarizes one student's work in a course.
type StudentProgress struct {
	Evaluated   int     `json:"evaluated"`
	Unreviewed  int     `json:"unreviewed"`
	Unsubmitted int     `json:"unsubmitted"`
	TotalPoints float64 `json:"totalPoints"`
}

// Heatmap holds the class days of a course and the days a student attended.
type Heatmap struct {
	Classes         []string `json:"classes"`
	AttendanceDates []string `json:"attendanceDates"`
}

// BuildPie partitions submissions into evaluated and unreviewed and derives
// the not-submitted remainder from the expected total. The remainder is
// negative when menteeCount is stale; it is reported as is.
func BuildPie(subs []models.Submission, totalAssignments, menteeCount int64) PieData {
	var with, without int64
	for _, s := range subs {
		if s.Evaluated() {
			with++
		} else {
			without++
		}
	}
	return PieData{with, without, totalAssignments*menteeCount - with - without}
}

// BuildLine emits one point per class in the order given. Attendance
// records are counted per class; absentees may go negative when
// menteesCount under-counts the cohort.
func BuildLine(classes []models.Class, attended []models.Attendance, menteesCount int) []LinePoint {
	perClass := make(map[primitive.ObjectID]int, len(classes))
	for _, a := range attended {
		perClass[a.ClassID]++
	}

	out := make([]LinePoint, 0, len(classes))
	for _, c := range classes {
		n := perClass[c.ID]
		out = append(out, LinePoint{
			Class:     DateKey(c.CreatedAt),
			Attendees: n,
			Absentees: menteesCount - n,
		})
	}
	return out
}

// BuildBar counts submissions per assignment, keeping assignment order.
func BuildBar(assignments []models.Attachment, subs []models.Submission) []BarPoint {
	perAssignment := make(map[primitive.ObjectID]int, len(assignments))
	for _, s := range subs {
		perAssignment[s.AssignmentID]++
	}

	out := make([]BarPoint, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, BarPoint{
			Assignment:  a.Title,
			Submissions: perAssignment[a.ID],
		})
	}
	return out
}

// ExpectedSubmissions sums MaxSubmissions over assignments; a missing
// value counts as zero.
func ExpectedSubmissions(assignments []models.Attachment) int {
	total := 0
	for _, a := range assignments {
		if a.MaxSubmissions != nil {
			total += *a.MaxSubmissions
		}
	}
	return total
}

// BuildProgress summarizes a student's submissions against totalExpected.
// Points are summed over evaluated submissions only.
func BuildProgress(subs []models.Submission, totalExpected int) StudentProgress {
	var p StudentProgress
	for _, s := range subs {
		if !s.Evaluated() {
			p.Unreviewed++
			continue
		}
		p.Evaluated++
		p.TotalPoints += s.TotalScore()
	}
	p.Unsubmitted = totalExpected - p.Evaluated - p.Unreviewed
	return p
}

// BuildHeatmap maps class creation times to calendar days. classes must be
// the course classes that have any attendance, in ascending order; attended
// are the student's attended records. Attendance dates follow class order,
// and records for classes outside classes are dropped.
func BuildHeatmap(classes []models.Class, attended []models.Attendance) Heatmap {
	perClass := make(map[primitive.ObjectID]int, len(attended))
	for _, a := range attended {
		perClass[a.ClassID]++
	}

	h := Heatmap{
		Classes:         make([]string, 0, len(classes)),
		AttendanceDates: make([]string, 0, len(attended)),
	}
	for _, c := range classes {
		d := DateKey(c.CreatedAt)
		h.Classes = append(h.Classes, d)
		for i := 0; i < perClass[c.ID]; i++ {
			h.AttendanceDates = append(h.AttendanceDates, d)
		}
	}
	return h
}
