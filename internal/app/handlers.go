package app

import (
	httpapi "github.com/yungbote/neurobridge-progress/internal/http"
	httpH "github.com/yungbote/neurobridge-progress/internal/http/handlers"
	"github.com/yungbote/neurobridge-progress/internal/observability"
	"github.com/yungbote/neurobridge-progress/internal/platform/clock"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, clk clock.Clock, metrics *observability.Metrics, pinger httpH.Pinger, svc Services) httpapi.RouterConfig {
	log.Info("Wiring handlers...")
	eng := svc.Engine
	return httpapi.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		CORSOrigins: cfg.CORSOrigins,
		ServiceName: cfg.ServiceName,

		HealthHandler:      httpH.NewHealthHandler(pinger),
		CourseHandler:      httpH.NewCourseHandler(log, svc.Catalog, eng.Enrollments),
		ProgressHandler:    httpH.NewProgressHandler(log, eng.Progress),
		StudentHandler:     httpH.NewStudentHandler(log, svc.Students),
		QuizHandler:        httpH.NewQuizHandler(log, eng.Quiz),
		CertificateHandler: httpH.NewCertificateHandler(log, eng.Certificates, svc.CertificateImages),
		LeaderboardHandler: httpH.NewLeaderboardHandler(log, eng.Leaderboard, svc.LeaderboardExport, clk),
	}
}
