package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	"github.com/yungbote/neurobridge-progress/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type repoSet struct {
	students     repos.StudentRepo
	courses      repos.CourseRepo
	modules      repos.CourseModuleRepo
	questions    repos.QuizQuestionRepo
	enrollments  repos.EnrollmentRepo
	attempts     repos.QuizAttemptRepo
	certificates repos.CertificateRepo
}

func newRepoSet(db *gorm.DB, log *logger.Logger) repoSet {
	return repoSet{
		students:     repos.NewStudentRepo(db, log),
		courses:      repos.NewCourseRepo(db, log),
		modules:      repos.NewCourseModuleRepo(db, log),
		questions:    repos.NewQuizQuestionRepo(db, log),
		enrollments:  repos.NewEnrollmentRepo(db, log),
		attempts:     repos.NewQuizAttemptRepo(db, log),
		certificates: repos.NewCertificateRepo(db, log),
	}
}

func seedCertificate(t *testing.T, db *gorm.DB, enr *types.Enrollment, at time.Time) *types.Certificate {
	t.Helper()
	c := &types.Certificate{
		ID:           uuid.New(),
		EnrollmentID: enr.ID,
		StudentID:    enr.StudentID,
		CourseID:     enr.CourseID,
		IssuedAt:     at,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func completeEnrollment(t *testing.T, db *gorm.DB, enr *types.Enrollment, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(enr).Updates(map[string]any{
		"progress_percentage": 100.0,
		"completed_at":        at,
	}).Error)
	enr.ProgressPercentage, enr.CompletedAt = 100, &at
}

func TestCatalog_GetCourseOrdersModules(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	rs := newRepoSet(db, log)

	course := testutil.SeedCourse(t, ctx, db, "Go")
	testutil.SeedCourseModule(t, ctx, db, course.ID, 3)
	testutil.SeedCourseModule(t, ctx, db, course.ID, 1)
	testutil.SeedCourseModule(t, ctx, db, course.ID, 2)
	testutil.SeedCourse(t, ctx, db, "Rust")

	svc := NewCatalogService(log, rs.courses, rs.modules)

	all, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := svc.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Modules, 3)
	for i, m := range got.Modules {
		assert.Equal(t, i+1, m.OrderNum)
	}

	_, err = svc.GetCourse(ctx, uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
	_, err = svc.GetCourse(ctx, uuid.Nil)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}

func TestStudent_CoursesStatsCertificates(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	rs := newRepoSet(db, log)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	st := testutil.SeedStudent(t, ctx, db, "ada")
	goCourse := testutil.SeedCourse(t, ctx, db, "Go")
	sqlCourse := testutil.SeedCourse(t, ctx, db, "SQL")

	e1 := testutil.SeedEnrollment(t, ctx, db, st.ID, goCourse.ID, base)
	testutil.SeedEnrollment(t, ctx, db, st.ID, sqlCourse.ID, base.Add(time.Hour))
	completeEnrollment(t, db, e1, base.Add(2*time.Hour))
	seedCertificate(t, db, e1, base.Add(2*time.Hour))

	testutil.SeedQuizAttempt(t, ctx, db, st.ID, goCourse.ID, 100, base)
	testutil.SeedQuizAttempt(t, ctx, db, st.ID, goCourse.ID, 60, base.Add(time.Minute))
	testutil.SeedQuizAttempt(t, ctx, db, st.ID, sqlCourse.ID, 75, base.Add(2*time.Minute))

	svc := NewStudentService(log, StudentServiceDeps{
		Students:     rs.students,
		Courses:      rs.courses,
		Enrollments:  rs.enrollments,
		Attempts:     rs.attempts,
		Certificates: rs.certificates,
	})

	courses, err := svc.Courses(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, sqlCourse.ID, courses[0].CourseID, "newest enrollment first")
	assert.False(t, courses[0].Completed)
	assert.True(t, courses[1].Completed)
	assert.Equal(t, 100.0, courses[1].ProgressPercentage)

	stats, err := svc.Stats(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.EnrolledCourses)
	assert.Equal(t, int64(1), stats.CompletedCourses)
	assert.Equal(t, int64(1), stats.Certificates)
	assert.InDelta(t, 78.33, stats.AvgScore, 0.001)

	certs, err := svc.Certificates(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "Go", certs[0].CourseTitle)
	assert.Equal(t, "Dr. Ada", certs[0].Instructor)
}

func TestStudent_UnknownStudent(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := newRepoSet(db, log)
	svc := NewStudentService(log, StudentServiceDeps{
		Students:     rs.students,
		Courses:      rs.courses,
		Enrollments:  rs.enrollments,
		Attempts:     rs.attempts,
		Certificates: rs.certificates,
	})

	_, err := svc.Stats(context.Background(), uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
	_, err = svc.Courses(context.Background(), uuid.Nil)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}

func TestStudent_StatsWithoutActivity(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	rs := newRepoSet(db, log)
	st := testutil.SeedStudent(t, ctx, db, "idle")

	svc := NewStudentService(log, StudentServiceDeps{
		Students:     rs.students,
		Courses:      rs.courses,
		Enrollments:  rs.enrollments,
		Attempts:     rs.attempts,
		Certificates: rs.certificates,
	})
	stats, err := svc.Stats(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, types.DashboardStats{}, *stats)
}
