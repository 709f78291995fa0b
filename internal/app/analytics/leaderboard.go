package analytics

import (
	"context"
	"sort"

	statsstore "github.com/dalemusser/learnboard/internal/app/store/stats"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserRef is the public identity shown on the leaderboard.
type UserRef struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Username string             `json:"username"`
	Image    string             `json:"image,omitempty"`
}

// LeaderboardRecord is one submission and the sum of its own points.
type LeaderboardRecord struct {
	SubmissionID primitive.ObjectID `json:"submissionId"`
	CourseID     primitive.ObjectID `json:"courseId"`
	User         UserRef            `json:"user"`
	TotalPoints  float64            `json:"totalPoints"`
}

// UserStanding aggregates every record of one user.
type UserStanding struct {
	Rank        int     `json:"rank"`
	User        UserRef `json:"user"`
	TotalPoints float64 `json:"totalPoints"`
	Submissions int     `json:"submissions"`
}

// Leaderboard is the ranked submission list across the caller's courses.
type Leaderboard struct {
	Records   []LeaderboardRecord `json:"records"`
	Standings []UserStanding      `json:"standings"`
	Courses   []models.Course     `json:"courses"`
}

// DashboardSummary is the caller's place on the leaderboard.
//
// Position, Points and AssignmentsSubmitted are computed over submission
// records. Standing is the per-user aggregate and is nil when the caller
// has no submissions.
type DashboardSummary struct {
	Position             int           `json:"position"`
	Points               *float64      `json:"points"`
	AssignmentsSubmitted int           `json:"assignmentsSubmitted"`
	CurrentUser          UserRef       `json:"currentUser"`
	Standing             *UserStanding `json:"standing,omitempty"`
}

// RankSubmissions returns a copy of records sorted by TotalPoints
// descending. Equal totals keep their input order.
func RankSubmissions(records []LeaderboardRecord) []LeaderboardRecord {
	out := make([]LeaderboardRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	return out
}

// RankUsers folds records into one standing per user, sorted by total
// descending with ties kept in first-seen order. Ranks start at 1.
func RankUsers(records []LeaderboardRecord) []UserStanding {
	idx := make(map[primitive.ObjectID]int)
	var out []UserStanding
	for _, r := range records {
		i, ok := idx[r.User.ID]
		if !ok {
			i = len(out)
			idx[r.User.ID] = i
			out = append(out, UserStanding{User: r.User})
		}
		out[i].TotalPoints += r.TotalPoints
		out[i].Submissions++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Summarize locates user in ranked. Position is the index of the user's
// first record, or -1 when the user has none.
func Summarize(ranked []LeaderboardRecord, user UserRef) DashboardSummary {
	s := DashboardSummary{Position: -1, CurrentUser: user}
	for i, r := range ranked {
		if r.User.ID != user.ID {
			continue
		}
		if s.Position < 0 {
			s.Position = i
			s.CurrentUser = r.User
			pts := r.TotalPoints
			s.Points = &pts
		}
		s.AssignmentsSubmitted++
	}
	for _, st := range RankUsers(ranked) {
		if st.User.ID == user.ID {
			s.Standing = &st
			break
		}
	}
	return s
}

// Leaderboard ranks every submission in the courses p is enrolled in.
// It returns nil when p is nil or any query fails.
func (e *Engine) Leaderboard(ctx context.Context, p *models.Principal) *Leaderboard {
	if p == nil {
		return nil
	}

	courses, err := e.store.FindEnrolledCourses(ctx, p.ID)
	if err != nil {
		e.log.Warn("leaderboard: enrolled courses query failed",
			zap.String("user_id", p.ID.Hex()), zap.Error(err))
		return nil
	}
	courseIDs := make([]primitive.ObjectID, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	subs, err := e.store.FindSubmissions(ctx, statsstore.SubmissionFilter{CourseIDs: courseIDs})
	if err != nil {
		e.log.Warn("leaderboard: submissions query failed",
			zap.String("user_id", p.ID.Hex()), zap.Error(err))
		return nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(subs))
	seen := make(map[primitive.ObjectID]bool, len(subs))
	for _, s := range subs {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			userIDs = append(userIDs, s.UserID)
		}
	}
	users, err := e.store.FindUsers(ctx, statsstore.UserFilter{IDs: userIDs})
	if err != nil {
		e.log.Warn("leaderboard: users query failed",
			zap.String("user_id", p.ID.Hex()), zap.Error(err))
		return nil
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	records := make([]LeaderboardRecord, 0, len(subs))
	for _, s := range subs {
		ref := UserRef{ID: s.UserID, Username: s.Username}
		if u, ok := byID[s.UserID]; ok {
			ref = userRef(u)
		}
		records = append(records, LeaderboardRecord{
			SubmissionID: s.ID,
			CourseID:     s.CourseID,
			User:         ref,
			TotalPoints:  s.TotalScore(),
		})
	}

	ranked := RankSubmissions(records)
	return &Leaderboard{
		Records:   ranked,
		Standings: nonNil(RankUsers(ranked)),
		Courses:   nonNil(courses),
	}
}

// DashboardSummary reports the caller's leaderboard position, or nil when
// the leaderboard is unavailable.
func (e *Engine) DashboardSummary(ctx context.Context, p *models.Principal) *DashboardSummary {
	lb := e.Leaderboard(ctx, p)
	if lb == nil {
		return nil
	}
	s := Summarize(lb.Records, UserRef{ID: p.ID, Username: p.Username})
	return &s
}

func userRef(u models.User) UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Username: u.Username, Image: u.Image}
}
