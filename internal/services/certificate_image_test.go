package services

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-progress/internal/data/repos/testutil"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/gcp"
)

type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
}

func newMemBucket() *memBucket { return &memBucket{objects: map[string][]byte{}} }

func (b *memBucket) Upload(_ context.Context, key string, body io.Reader) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = raw
	b.uploads++
	return nil
}

func (b *memBucket) Download(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.objects[key]
	if !ok {
		return nil, gcp.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (b *memBucket) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok, nil
}

func (b *memBucket) PublicURL(key string) string { return "https://storage.example/" + key }
func (b *memBucket) Close() error                { return nil }

func TestCertificateImage_RenderAndArchive(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	rs := newRepoSet(db, log)
	at := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	st := testutil.SeedStudent(t, ctx, db, "grace")
	course := testutil.SeedCourse(t, ctx, db, "Compilers")
	enr := testutil.SeedEnrollment(t, ctx, db, st.ID, course.ID, at)
	completeEnrollment(t, db, enr, at)
	cert := seedCertificate(t, db, enr, at)

	bucket := newMemBucket()
	svc, err := NewCertificateImageService(log, CertificateImageDeps{
		Students:     rs.students,
		Courses:      rs.courses,
		Certificates: rs.certificates,
		Bucket:       bucket,
	}, "")
	require.NoError(t, err)

	raw, err := svc.Render(ctx, cert.ID)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, certificateWidth, img.Bounds().Dx())
	assert.Equal(t, certificateHeight, img.Bounds().Dy())
	assert.Equal(t, 1, bucket.uploads)
	assert.Contains(t, bucket.objects, "certificates/"+cert.ID.String()+".png")

	again, err := svc.Render(ctx, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
	assert.Equal(t, 1, bucket.uploads, "second render is served from the archive")
}

func TestCertificateImage_NotFound(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := newRepoSet(db, log)
	svc, err := NewCertificateImageService(log, CertificateImageDeps{
		Students:     rs.students,
		Courses:      rs.courses,
		Certificates: rs.certificates,
	}, "")
	require.NoError(t, err)

	_, err = svc.Render(context.Background(), uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
	_, err = svc.Render(context.Background(), uuid.Nil)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}

func TestCertificateImage_MissingFontFile(t *testing.T) {
	_, err := NewCertificateImageService(testutil.Logger(t), CertificateImageDeps{}, "/nonexistent/font.ttf")
	assert.Error(t, err)
}
