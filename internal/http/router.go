package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-progress/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-progress/internal/http/middleware"
	"github.com/yungbote/neurobridge-progress/internal/observability"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

const (
	healthPath  = "/healthcheck"
	metricsPath = "/metrics"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	ServiceName string

	HealthHandler      *httpH.HealthHandler
	CourseHandler      *httpH.CourseHandler
	ProgressHandler    *httpH.ProgressHandler
	StudentHandler     *httpH.StudentHandler
	QuizHandler        *httpH.QuizHandler
	CertificateHandler *httpH.CertificateHandler
	LeaderboardHandler *httpH.LeaderboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Recover(cfg.Log))
	r.Use(httpMW.RequestLogger(cfg.Log, healthPath, metricsPath))
	r.Use(httpMW.Metrics(cfg.Metrics, metricsPath))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET(healthPath, cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET(metricsPath, gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Catalog + enrollment
		if cfg.CourseHandler != nil {
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			api.POST("/courses/enroll", cfg.CourseHandler.Enroll)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.POST("/modules/:id/view", cfg.ProgressHandler.MarkModuleViewed)
			api.POST("/enrollments/recompute", cfg.ProgressHandler.Recompute)
		}

		// Student dashboard
		if cfg.StudentHandler != nil {
			api.GET("/students/:id/courses", cfg.StudentHandler.Courses)
			api.GET("/students/:id/stats", cfg.StudentHandler.Stats)
			api.GET("/students/:id/certificates", cfg.StudentHandler.Certificates)
		}

		// Quiz
		if cfg.QuizHandler != nil {
			api.GET("/quiz/:courseId/questions", cfg.QuizHandler.Questions)
			api.POST("/quiz/submit", cfg.QuizHandler.Submit)
		}

		// Certificates
		if cfg.CertificateHandler != nil {
			api.POST("/certificates/issue", cfg.CertificateHandler.Issue)
			api.GET("/certificates/:id/image.png", cfg.CertificateHandler.Image)
		}

		// Leaderboard
		if cfg.LeaderboardHandler != nil {
			api.GET("/leaderboard", cfg.LeaderboardHandler.Get)
			api.GET("/leaderboard/export.xlsx", cfg.LeaderboardHandler.Export)
		}
	}

	return r
}
