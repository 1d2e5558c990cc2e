package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// Fixtures is the YAML document accepted by SeedService.
type Fixtures struct {
	Students []StudentFixture `yaml:"students" validate:"dive"`
	Courses  []CourseFixture  `yaml:"courses" validate:"dive"`
}

type StudentFixture struct {
	Username string `yaml:"username" validate:"required,alphanum"`
	Email    string `yaml:"email" validate:"required,email"`
	FullName string `yaml:"full_name" validate:"required"`
	Password string `yaml:"password" validate:"required,min=8"`
}

type CourseFixture struct {
	Title         string            `yaml:"title" validate:"required"`
	Instructor    string            `yaml:"instructor"`
	DurationHours int               `yaml:"duration_hours" validate:"gte=0"`
	Description   string            `yaml:"description"`
	Modules       []ModuleFixture   `yaml:"modules" validate:"dive"`
	Questions     []QuestionFixture `yaml:"questions" validate:"dive"`
}

type ModuleFixture struct {
	Order   int    `yaml:"order" validate:"gte=1"`
	Title   string `yaml:"title" validate:"required"`
	Content string `yaml:"content"`
}

type QuestionFixture struct {
	Text    string    `yaml:"text" validate:"required"`
	Options [4]string `yaml:"options" validate:"dive,required"`
	Correct string    `yaml:"correct" validate:"required,oneof=A B C D a b c d"`
}

type SeedReport struct {
	Students  int
	Courses   int
	Modules   int
	Questions int
}

// seedNamespace derives stable ids so fixtures can be re-applied.
var seedNamespace = uuid.MustParse("5b0f8a52-3c8e-4c1e-9d0a-6f1f4b7e2a11")

func seedID(parts ...string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(strings.Join(parts, "\x00")))
}

type SeedService interface {
	Parse(r io.Reader) (*Fixtures, error)
	Apply(ctx context.Context, fx *Fixtures) (SeedReport, error)
}

type seedService struct {
	log       *logger.Logger
	runner    TxRunner
	students  repos.StudentRepo
	courses   repos.CourseRepo
	modules   repos.CourseModuleRepo
	questions repos.QuizQuestionRepo
	validate  *validator.Validate
	cost      int
}

// TxRunner opens the transaction a seed run writes in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type SeedServiceDeps struct {
	Runner    TxRunner
	Students  repos.StudentRepo
	Courses   repos.CourseRepo
	Modules   repos.CourseModuleRepo
	Questions repos.QuizQuestionRepo
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewSeedService(baseLog *logger.Logger, deps SeedServiceDeps) SeedService {
	cost := deps.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &seedService{
		log:       baseLog.With("service", "SeedService"),
		runner:    deps.Runner,
		students:  deps.Students,
		courses:   deps.Courses,
		modules:   deps.Modules,
		questions: deps.Questions,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		cost:      cost,
	}
}

func (s *seedService) Parse(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := s.validate.Struct(fx); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &fx, nil
}

func (s *seedService) Apply(ctx context.Context, fx *Fixtures) (SeedReport, error) {
	var rep SeedReport
	if fx == nil {
		return rep, nil
	}

	students := make([]*types.Student, 0, len(fx.Students))
	for _, st := range fx.Students {
		hash, err := bcrypt.GenerateFromPassword([]byte(st.Password), s.cost)
		if err != nil {
			return rep, fmt.Errorf("hash password for %q: %w", st.Username, err)
		}
		students = append(students, &types.Student{
			ID:           seedID("student", st.Username),
			Username:     st.Username,
			Email:        strings.ToLower(st.Email),
			FullName:     st.FullName,
			PasswordHash: string(hash),
		})
	}

	var (
		courses   []*types.Course
		modules   []*types.CourseModule
		questions []*types.QuizQuestion
	)
	for _, c := range fx.Courses {
		courseID := seedID("course", c.Title)
		courses = append(courses, &types.Course{
			ID:            courseID,
			Title:         c.Title,
			Instructor:    c.Instructor,
			DurationHours: c.DurationHours,
			Description:   c.Description,
		})
		for _, m := range c.Modules {
			modules = append(modules, &types.CourseModule{
				ID:       seedID("module", courseID.String(), fmt.Sprint(m.Order)),
				CourseID: courseID,
				OrderNum: m.Order,
				Title:    m.Title,
				Content:  m.Content,
			})
		}
		for _, q := range c.Questions {
			questions = append(questions, &types.QuizQuestion{
				ID:            seedID("question", courseID.String(), q.Text),
				CourseID:      courseID,
				QuestionText:  q.Text,
				OptionA:       q.Options[0],
				OptionB:       q.Options[1],
				OptionC:       q.Options[2],
				OptionD:       q.Options[3],
				CorrectAnswer: strings.ToUpper(q.Correct),
			})
		}
	}

	err := s.runner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.students.Upsert(dbc, students); err != nil {
			return fmt.Errorf("upsert students: %w", err)
		}
		if err := s.courses.Upsert(dbc, courses); err != nil {
			return fmt.Errorf("upsert courses: %w", err)
		}
		if err := s.modules.Upsert(dbc, modules); err != nil {
			return fmt.Errorf("upsert modules: %w", err)
		}
		if err := s.questions.Upsert(dbc, questions); err != nil {
			return fmt.Errorf("upsert questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return rep, err
	}
	rep = SeedReport{Students: len(students), Courses: len(courses), Modules: len(modules), Questions: len(questions)}
	s.log.Info("fixtures applied", "students", rep.Students, "courses", rep.Courses, "modules", rep.Modules, "questions", rep.Questions)
	return rep, nil
}
