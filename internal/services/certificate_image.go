package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/gcp"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

const (
	certificateWidth  = 1600
	certificateHeight = 1130
)

// CertificateImageService renders certificates as PNG and, when a bucket is
// configured, archives the first render under certificates/<id>.png.
type CertificateImageService interface {
	Render(ctx context.Context, certificateID uuid.UUID) ([]byte, error)
	RenderFor(student *types.Student, course *types.Course, cert *types.Certificate) ([]byte, error)
}

type CertificateImageDeps struct {
	Students     repos.StudentRepo
	Courses      repos.CourseRepo
	Certificates repos.CertificateRepo
	// Bucket is optional.
	Bucket gcp.BucketService
}

type certificateImageService struct {
	log  *logger.Logger
	deps CertificateImageDeps

	titleFace font.Face
	nameFace  font.Face
	bodyFace  font.Face
	smallFace font.Face
}

// NewCertificateImageService loads fontPath when set and falls back to the
// bundled Go fonts.
func NewCertificateImageService(baseLog *logger.Logger, deps CertificateImageDeps, fontPath string) (CertificateImageService, error) {
	serviceLog := baseLog.With("service", "CertificateImageService")

	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	if p := strings.TrimSpace(fontPath); p != "" {
		serviceLog.Info("Loading certificate font", "font", p)
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read certificate font: %w", err)
		}
		custom, err := truetype.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse certificate font: %w", err)
		}
		regular, bold = custom, custom
	}

	return &certificateImageService{
		log:       serviceLog,
		deps:      deps,
		titleFace: newFace(bold, 72),
		nameFace:  newFace(bold, 56),
		bodyFace:  newFace(regular, 32),
		smallFace: newFace(regular, 24),
	}, nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

func certificateKey(id uuid.UUID) string {
	return "certificates/" + id.String() + ".png"
}

func (s *certificateImageService) Render(ctx context.Context, certificateID uuid.UUID) ([]byte, error) {
	const op = "CertificateImage.Render"
	if certificateID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "certificate_id is required", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	cert, err := s.deps.Certificates.GetByID(dbc, certificateID)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	if cert == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "certificate not found", nil)
	}

	key := certificateKey(cert.ID)
	if s.deps.Bucket != nil {
		if raw, err := s.fromArchive(ctx, key); err == nil {
			return raw, nil
		} else if !errors.Is(err, gcp.ErrObjectNotFound) {
			s.log.Warn("certificate archive read failed (rendering)", append([]interface{}{"key", key, "error", err}, ctxutil.LogFields(ctx)...)...)
		}
	}

	student, err := s.deps.Students.GetByID(dbc, cert.StudentID)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	course, err := s.deps.Courses.GetByID(dbc, cert.CourseID)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	if student == nil || course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "certificate subject not found", nil)
	}

	raw, err := s.RenderFor(student, course, cert)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "render failed", err)
	}

	if s.deps.Bucket != nil {
		if err := s.deps.Bucket.Upload(ctx, key, bytes.NewReader(raw)); err != nil {
			s.log.Warn("certificate archive upload failed (ignored)", "key", key, "error", err)
		} else {
			s.log.Info("certificate archived", "key", key, "url", s.deps.Bucket.PublicURL(key))
		}
	}
	return raw, nil
}

func (s *certificateImageService) fromArchive(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.deps.Bucket.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *certificateImageService) RenderFor(student *types.Student, course *types.Course, cert *types.Certificate) ([]byte, error) {
	if student == nil || course == nil || cert == nil {
		return nil, fmt.Errorf("student, course and certificate are required")
	}
	const w, h = float64(certificateWidth), float64(certificateHeight)

	dc := gg.NewContext(certificateWidth, certificateHeight)
	dc.SetColor(color.NRGBA{R: 0xFB, G: 0xF8, B: 0xF1, A: 0xFF})
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	border := color.NRGBA{R: 0x1F, G: 0x3A, B: 0x5F, A: 0xFF}
	dc.SetColor(border)
	dc.SetLineWidth(12)
	dc.DrawRectangle(40, 40, w-80, h-80)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(64, 64, w-128, h-128)
	dc.Stroke()

	name := strings.TrimSpace(student.FullName)
	if name == "" {
		name = student.Username
	}

	dc.SetColor(border)
	dc.SetFontFace(s.titleFace)
	dc.DrawStringAnchored("Certificate of Completion", w/2, 250, 0.5, 0.5)

	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.SetFontFace(s.bodyFace)
	dc.DrawStringAnchored("This certifies that", w/2, 400, 0.5, 0.5)

	dc.SetColor(color.Black)
	dc.SetFontFace(s.nameFace)
	dc.DrawStringAnchored(name, w/2, 500, 0.5, 0.5)

	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.SetFontFace(s.bodyFace)
	dc.DrawStringAnchored("has successfully completed", w/2, 600, 0.5, 0.5)
	dc.DrawStringWrapped(course.Title, w/2, 680, 0.5, 0.5, w-400, 1.4, gg.AlignCenter)

	dc.SetFontFace(s.smallFace)
	if instructor := strings.TrimSpace(course.Instructor); instructor != "" {
		dc.DrawStringAnchored("Instructor: "+instructor, w/2, 820, 0.5, 0.5)
	}
	dc.DrawStringAnchored("Issued "+cert.IssuedAt.UTC().Format(time.DateOnly), w/2, 880, 0.5, 0.5)
	dc.DrawStringAnchored("Certificate ID "+cert.ID.String(), w/2, 960, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
