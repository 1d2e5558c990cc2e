package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-progress/internal/data/aggregates"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/modules/coursework"
	"github.com/yungbote/neurobridge-progress/internal/observability"
	"github.com/yungbote/neurobridge-progress/internal/platform/clock"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"github.com/yungbote/neurobridge-progress/internal/services"
)

type Services struct {
	Store     domainagg.CourseworkStore
	Engine    *coursework.Engine
	Publisher *services.FanoutPublisher

	Catalog           services.CatalogService
	Students          services.StudentService
	CertificateImages services.CertificateImageService
	LeaderboardExport services.LeaderboardExportService
	Reconcile         services.ReconcileService
	Seed              services.SeedService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clk clock.Clock, metrics *observability.Metrics, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	store := aggregates.NewCourseworkStore(aggregates.CourseworkStoreDeps{
		Base: aggregates.BaseDeps{
			DB:       db,
			Log:      log,
			Hooks:    aggregates.NewObservabilityHooks(metrics),
			CASGuard: aggregates.NewCASGuard(db),
		},
		Students:     reposet.Student,
		Courses:      reposet.Course,
		Modules:      reposet.CourseModule,
		Questions:    reposet.QuizQuestion,
		Enrollments:  reposet.Enrollment,
		ModuleViews:  reposet.ModuleView,
		Attempts:     reposet.QuizAttempt,
		Certificates: reposet.Certificate,
	})

	images, err := services.NewCertificateImageService(log, services.CertificateImageDeps{
		Students:     reposet.Student,
		Courses:      reposet.Course,
		Certificates: reposet.Certificate,
		Bucket:       clients.Bucket,
	}, cfg.CertFontPath)
	if err != nil {
		return Services{}, fmt.Errorf("init certificate images: %w", err)
	}

	fanout := services.NewFanoutPublisher(log).
		Add("redis", services.RedisSink(clients.Bus)).
		Add("webhook", services.WebhookSink(clients.Webhook))
	if clients.Mail != nil {
		fanout.Add("mail", services.NewCertificateMailer(log, services.CertificateMailerDeps{
			Client:       clients.Mail,
			Students:     reposet.Student,
			Courses:      reposet.Course,
			Certificates: reposet.Certificate,
			Images:       images,
		}))
	}

	engine, err := coursework.New(coursework.Deps{
		Store:     store,
		Clock:     clk,
		Policy:    cfg.Policy,
		Log:       log,
		Publisher: fanout,
		Metrics:   metrics,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init coursework engine: %w", err)
	}

	return Services{
		Store:     store,
		Engine:    engine,
		Publisher: fanout,
		Catalog:   services.NewCatalogService(log, reposet.Course, reposet.CourseModule),
		Students: services.NewStudentService(log, services.StudentServiceDeps{
			Students:     reposet.Student,
			Courses:      reposet.Course,
			Enrollments:  reposet.Enrollment,
			Attempts:     reposet.QuizAttempt,
			Certificates: reposet.Certificate,
		}),
		CertificateImages: images,
		LeaderboardExport: services.NewLeaderboardExportService(log, engine.Leaderboard),
		Reconcile:         services.NewReconcileService(log, store, engine.Progress),
		Seed: services.NewSeedService(log, services.SeedServiceDeps{
			Runner:    aggregates.NewGormTxRunner(db),
			Students:  reposet.Student,
			Courses:   reposet.Course,
			Modules:   reposet.CourseModule,
			Questions: reposet.QuizQuestion,
		}),
	}, nil
}
