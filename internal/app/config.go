package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/yungbote/neurobridge-progress/internal/modules/coursework"
	"github.com/yungbote/neurobridge-progress/internal/platform/envutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type Config struct {
	HTTPAddr    string   `validate:"required"`
	CORSOrigins []string `validate:"dive,url"`
	ServiceName string

	RedisAddr    string `validate:"omitempty,hostname_port"`
	RedisChannel string `validate:"required_with=RedisAddr"`

	ReconcileCron    string
	ReconcileTimeout time.Duration `validate:"gte=0"`
	Timezone         string        `validate:"required"`

	CertBucket    string
	CertCDNDomain string `validate:"omitempty,hostname"`
	CertFontPath  string `validate:"omitempty,file"`

	MetricsEnabled bool

	PolicyFile string `validate:"omitempty,file"`
	Policy     coursework.Policy
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads .env (if present) and the process environment. The
// progress policy comes from PROGRESS_POLICY_FILE, then env overrides.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("could not load .env", "error", err)
	}

	cfg := Config{
		HTTPAddr:         envutil.String("HTTP_ADDR", ":8080"),
		CORSOrigins:      splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		ServiceName:      envutil.String("OTEL_SERVICE_NAME", "neurobridge-progress"),
		RedisAddr:        envutil.String("REDIS_ADDR", ""),
		RedisChannel:     envutil.String("REDIS_CHANNEL", "coursework-events"),
		ReconcileCron:    envutil.String("RECONCILE_CRON", ""),
		ReconcileTimeout: envutil.Duration("RECONCILE_TIMEOUT", 10*time.Minute),
		Timezone:         envutil.String("APP_TIMEZONE", "UTC"),
		CertBucket:       envutil.String("CERT_BUCKET", ""),
		CertCDNDomain:    envutil.String("CERT_CDN_DOMAIN", ""),
		CertFontPath:     envutil.String("CERT_FONT", ""),
		MetricsEnabled:   envutil.Bool("METRICS_ENABLED", false),
		PolicyFile:       envutil.String("PROGRESS_POLICY_FILE", ""),
	}

	policy, err := loadPolicy(cfg.PolicyFile)
	if err != nil {
		return cfg, err
	}
	cfg.Policy = policy

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadPolicy(path string) (coursework.Policy, error) {
	p := coursework.DefaultPolicy()
	if path != "" {
		var err error
		if p, err = coursework.LoadPolicyFile(path); err != nil {
			return p, err
		}
	}
	p.ModuleWeight = envutil.Float("PROGRESS_MODULE_WEIGHT", p.ModuleWeight)
	p.QuizWeight = envutil.Float("PROGRESS_QUIZ_WEIGHT", p.QuizWeight)
	p.AttemptPolicy = coursework.AttemptPolicy(strings.ToLower(envutil.String("PROGRESS_ATTEMPT_POLICY", string(p.AttemptPolicy))))
	p.PassThreshold = envutil.Float("QUIZ_PASS_THRESHOLD", p.PassThreshold)
	p.DefaultQuestionCount = envutil.Int("QUIZ_DEFAULT_COUNT", p.DefaultQuestionCount)
	p.ConflictRetries = envutil.Int("CONFLICT_RETRIES", p.ConflictRetries)
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid progress policy: %w", err)
	}
	return p, nil
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
