package coursework

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
)

type LeaderboardRanker struct {
	*core
}

// Rank reads one snapshot of students, enrollments and attempts and orders
// every student by average best score, then completions, then id.
func (r *LeaderboardRanker) Rank(ctx context.Context) (out []types.LeaderboardEntry, err error) {
	const op = "coursework.Rank"
	ctx, span := r.startSpan(ctx, op)
	defer func() { endSpan(span, err) }()

	var (
		students    []*types.Student
		enrollments []*types.Enrollment
		attempts    []*types.QuizAttempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gerr error
		students, gerr = r.store.AllStudents(gctx)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		enrollments, gerr = r.store.AllEnrollments(gctx)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		attempts, gerr = r.store.AllAttempts(gctx)
		return gerr
	})
	if err = g.Wait(); err != nil {
		return nil, storageError(op, err)
	}
	return BuildLeaderboard(students, enrollments, attempts), nil
}

type standing struct {
	entry types.LeaderboardEntry
	best  map[uuid.UUID]float64
}

// BuildLeaderboard is the pure ranking over a snapshot. Students referenced
// only by enrollments or attempts are ranked too.
func BuildLeaderboard(students []*types.Student, enrollments []*types.Enrollment, attempts []*types.QuizAttempt) []types.LeaderboardEntry {
	byID := make(map[uuid.UUID]*standing, len(students))
	get := func(id uuid.UUID) *standing {
		s, ok := byID[id]
		if !ok {
			s = &standing{entry: types.LeaderboardEntry{StudentID: id}, best: map[uuid.UUID]float64{}}
			byID[id] = s
		}
		return s
	}
	for _, st := range students {
		if st == nil {
			continue
		}
		s := get(st.ID)
		s.entry.Username = st.Username
		s.entry.FullName = st.FullName
	}
	for _, e := range enrollments {
		if e == nil {
			continue
		}
		s := get(e.StudentID)
		if e.IsCompleted() {
			s.entry.CoursesCompleted++
		}
	}
	for _, a := range attempts {
		if a == nil {
			continue
		}
		s := get(a.StudentID)
		if cur, ok := s.best[a.CourseID]; !ok || a.Score > cur {
			s.best[a.CourseID] = a.Score
		}
	}

	out := make([]types.LeaderboardEntry, 0, len(byID))
	for _, s := range byID {
		if len(s.best) > 0 {
			scores := make([]float64, 0, len(s.best))
			for _, v := range s.best {
				scores = append(scores, v)
			}
			sort.Float64s(scores)
			sum := 0.0
			for _, v := range scores {
				sum += v
			}
			s.entry.AvgScore = round2(sum / float64(len(s.best)))
		}
		out = append(out, s.entry)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AvgScore != b.AvgScore {
			return a.AvgScore > b.AvgScore
		}
		if a.CoursesCompleted != b.CoursesCompleted {
			return a.CoursesCompleted > b.CoursesCompleted
		}
		return bytes.Compare(a.StudentID[:], b.StudentID[:]) < 0
	})
	for i := range out {
		out[i].RankPosition = i + 1
	}
	return out
}
