package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	"github.com/yungbote/neurobridge-progress/internal/modules/coursework"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"github.com/yungbote/neurobridge-progress/internal/platform/sendgrid"
)

// FanoutPublisher delivers every event to all sinks concurrently. One sink
// failing does not stop the others; the failures are joined.
type FanoutPublisher struct {
	log   *logger.Logger
	sinks []namedSink
}

type namedSink struct {
	name string
	pub  coursework.Publisher
}

func NewFanoutPublisher(baseLog *logger.Logger) *FanoutPublisher {
	return &FanoutPublisher{log: baseLog.With("service", "EventFanout")}
}

// Add registers pub under name; nil publishers are skipped.
func (f *FanoutPublisher) Add(name string, pub coursework.Publisher) *FanoutPublisher {
	if pub != nil {
		f.sinks = append(f.sinks, namedSink{name: name, pub: pub})
	}
	return f
}

func (f *FanoutPublisher) Len() int { return len(f.sinks) }

func (f *FanoutPublisher) Publish(ctx context.Context, evt coursework.Event) error {
	if f == nil || len(f.sinks) == 0 {
		return nil
	}
	errs := make([]error, len(f.sinks))
	var g errgroup.Group
	for i, s := range f.sinks {
		g.Go(func() error {
			if err := s.pub.Publish(ctx, evt); err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.name, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// CertificateMailer emails the student when a certificate is issued. Other
// event types are ignored.
type CertificateMailer struct {
	log      *logger.Logger
	client   sendgrid.Client
	students repos.StudentRepo
	courses  repos.CourseRepo
	// images is optional; when set the PNG is attached.
	images CertificateImageService
	certs  repos.CertificateRepo
}

type CertificateMailerDeps struct {
	Client       sendgrid.Client
	Students     repos.StudentRepo
	Courses      repos.CourseRepo
	Certificates repos.CertificateRepo
	Images       CertificateImageService
}

func NewCertificateMailer(baseLog *logger.Logger, deps CertificateMailerDeps) *CertificateMailer {
	return &CertificateMailer{
		log:      baseLog.With("service", "CertificateMailer"),
		client:   deps.Client,
		students: deps.Students,
		courses:  deps.Courses,
		images:   deps.Images,
		certs:    deps.Certificates,
	}
}

func (m *CertificateMailer) Publish(ctx context.Context, evt coursework.Event) error {
	if evt.Type != coursework.EventCertificateIssued {
		return nil
	}
	if m == nil || m.client == nil {
		return fmt.Errorf("certificate mailer not initialized")
	}
	dbc := dbctx.Context{Ctx: ctx}
	student, err := m.students.GetByID(dbc, evt.StudentID)
	if err != nil {
		return err
	}
	course, err := m.courses.GetByID(dbc, evt.CourseID)
	if err != nil {
		return err
	}
	if student == nil || course == nil {
		return fmt.Errorf("certificate mail: student or course missing")
	}
	if strings.TrimSpace(student.Email) == "" {
		m.log.Debug("student has no email, skipping certificate mail", "student_id", student.ID)
		return nil
	}

	name := strings.TrimSpace(student.FullName)
	if name == "" {
		name = student.Username
	}
	msg := sendgrid.Message{
		To:      sendgrid.Address{Email: student.Email, Name: name},
		Subject: fmt.Sprintf("Your certificate for %s", course.Title),
		Text: fmt.Sprintf("Hi %s,\n\nCongratulations on completing %s on %s.\n",
			name, course.Title, evt.At.UTC().Format("January 2, 2006")),
	}

	if m.images != nil && m.certs != nil && evt.CertificateID != nil {
		cert, err := m.certs.GetByID(dbc, *evt.CertificateID)
		if err == nil && cert != nil {
			png, err := m.images.RenderFor(student, course, cert)
			if err == nil {
				msg.Attachments = append(msg.Attachments, sendgrid.Attachment{
					Filename: "certificate.png",
					MIMEType: "image/png",
					Content:  png,
				})
			} else {
				m.log.Warn("certificate render for mail failed (sending without attachment)", "error", err)
			}
		}
	}

	res, err := m.client.Send(ctx, msg)
	if err != nil {
		return err
	}
	m.log.Info("certificate mail sent", "student_id", student.ID, "course_id", course.ID, "message_id", res.MessageID)
	return nil
}
