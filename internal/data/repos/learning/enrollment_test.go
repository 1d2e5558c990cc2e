package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/neurobridge-progress/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
)

func TestEnrollmentRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewEnrollmentRepo(db, testutil.Logger(t))

	s := testutil.SeedStudent(t, ctx, db, "enr")
	c1 := testutil.SeedCourse(t, ctx, db, "one")
	c2 := testutil.SeedCourse(t, ctx, db, "two")
	now := time.Now().UTC()

	first := &types.Enrollment{ID: uuid.New(), StudentID: s.ID, CourseID: c1.ID, EnrolledAt: now}
	ok, err := repo.InsertIfAbsent(dbc, first)
	if err != nil || !ok {
		t.Fatalf("InsertIfAbsent: ok=%v err=%v", ok, err)
	}
	dup := &types.Enrollment{ID: uuid.New(), StudentID: s.ID, CourseID: c1.ID, EnrolledAt: now}
	ok, err = repo.InsertIfAbsent(dbc, dup)
	if err != nil || ok {
		t.Fatalf("duplicate InsertIfAbsent: ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByStudentAndCourse(dbc, s.ID, c1.ID)
	if err != nil || got == nil || got.ID != first.ID {
		t.Fatalf("GetByStudentAndCourse: row=%v err=%v", got, err)
	}
	if missing, err := repo.GetByStudentAndCourse(dbc, s.ID, c2.ID); err != nil || missing != nil {
		t.Fatalf("GetByStudentAndCourse missing: row=%v err=%v", missing, err)
	}

	done := now.Add(time.Hour)
	second := &types.Enrollment{ID: uuid.New(), StudentID: s.ID, CourseID: c2.ID, EnrolledAt: now.Add(time.Minute), CompletedAt: &done, ProgressPercentage: 100}
	if _, err := repo.InsertIfAbsent(dbc, second); err != nil {
		t.Fatalf("InsertIfAbsent second: %v", err)
	}

	rows, err := repo.ListByStudentID(dbc, s.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByStudentID: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != second.ID {
		t.Fatalf("ListByStudentID not most-recent-first")
	}
	total, completed, err := repo.CountByStudentID(dbc, s.ID)
	if err != nil || total != 2 || completed != 1 {
		t.Fatalf("CountByStudentID: total=%d completed=%d err=%v", total, completed, err)
	}
	if all, err := repo.ListAll(dbc); err != nil || len(all) != 2 {
		t.Fatalf("ListAll: err=%v len=%d", err, len(all))
	}
}

func TestModuleViewRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewModuleViewRepo(db, testutil.Logger(t))

	s := testutil.SeedStudent(t, ctx, db, "viewer")
	c := testutil.SeedCourse(t, ctx, db, "views")
	other := testutil.SeedCourse(t, ctx, db, "elsewhere")
	m1 := testutil.SeedCourseModule(t, ctx, db, c.ID, 1)
	m2 := testutil.SeedCourseModule(t, ctx, db, c.ID, 2)
	m3 := testutil.SeedCourseModule(t, ctx, db, other.ID, 1)
	now := time.Now().UTC()

	for _, m := range []*types.CourseModule{m1, m2, m1, m3} {
		if _, err := repo.InsertIfAbsent(dbc, &types.ModuleView{ID: uuid.New(), StudentID: s.ID, ModuleID: m.ID, CourseID: m.CourseID, ViewedAt: now}); err != nil {
			t.Fatalf("InsertIfAbsent: %v", err)
		}
	}
	n, err := repo.CountByStudentAndCourse(dbc, s.ID, c.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountByStudentAndCourse: n=%d err=%v", n, err)
	}
}
