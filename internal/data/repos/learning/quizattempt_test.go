package learning

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-progress/internal/data/repos/testutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
)

func TestQuizAttemptRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	s := testutil.SeedStudent(t, ctx, db, "taker")
	c := testutil.SeedCourse(t, ctx, db, "quiz")
	base := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	testutil.SeedQuizAttempt(t, ctx, db, s.ID, c.ID, 50, base.Add(2*time.Minute))
	testutil.SeedQuizAttempt(t, ctx, db, s.ID, c.ID, 75, base)

	rows, err := repo.ListByStudentAndCourse(dbc, s.ID, c.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByStudentAndCourse: err=%v len=%d", err, len(rows))
	}
	if rows[0].Score != 75 || rows[1].Score != 50 {
		t.Fatalf("attempts not ordered by taken_at: %v, %v", rows[0].Score, rows[1].Score)
	}
	avg, err := repo.AvgScoreByStudentID(dbc, s.ID)
	if err != nil || avg != 62.5 {
		t.Fatalf("AvgScoreByStudentID: avg=%v err=%v", avg, err)
	}
	none := testutil.SeedStudent(t, ctx, db, "idle")
	if avg, err := repo.AvgScoreByStudentID(dbc, none.ID); err != nil || avg != 0 {
		t.Fatalf("AvgScoreByStudentID idle: avg=%v err=%v", avg, err)
	}
	if all, err := repo.ListAll(dbc); err != nil || len(all) != 2 {
		t.Fatalf("ListAll: err=%v len=%d", err, len(all))
	}
}
