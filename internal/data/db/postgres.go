package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/neurobridge-progress/internal/platform/envutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Service struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
}

// Open connects using DB_DRIVER (postgres by default).
func Open(logg *logger.Logger) (*Service, error) {
	switch strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres)) {
	case DriverSQLite:
		return NewSQLiteService(logg, envutil.String("SQLITE_PATH", "progress.db"))
	default:
		return NewPostgresService(logg)
	}
}

func NewPostgresService(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "PostgresService")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envutil.String("POSTGRES_USER", "postgres"),
		os.Getenv("POSTGRES_PASSWORD"),
		envutil.String("POSTGRES_HOST", "localhost"),
		envutil.String("POSTGRES_PORT", "5432"),
		envutil.String("POSTGRES_NAME", "neurobridge_progress"),
		envutil.String("POSTGRES_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute))

	serviceLog.Info("Connected to Postgres", "host", envutil.String("POSTGRES_HOST", "localhost"))
	return &Service{db: db, log: serviceLog, driver: DriverPostgres}, nil
}

// NewSQLiteService opens a sqlite database file (or ":memory:"). Writes are
// serialized through a single connection.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	serviceLog.Info("Opened SQLite", "path", path)
	return &Service{db: db, log: serviceLog, driver: DriverSQLite}, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             1 * time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Driver() string { return s.driver }

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	s.log.Info("Schema migrated")
	return nil
}

func (s *Service) PingContext(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
