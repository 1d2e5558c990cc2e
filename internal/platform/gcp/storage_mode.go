package gcp

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type StorageMode string

const (
	StorageModeGCS      StorageMode = "gcs"
	StorageModeEmulator StorageMode = "gcs_emulator"
)

// StorageConfig selects between real GCS and a fake-gcs style emulator.
// Credentials is inline service-account JSON or a key file path; empty means
// application default credentials.
type StorageConfig struct {
	Mode         StorageMode
	EmulatorHost string
	Credentials  string
}

func (cfg StorageConfig) Emulated() bool { return cfg.Mode == StorageModeEmulator }

// StorageConfigFromEnv reads OBJECT_STORAGE_MODE, STORAGE_EMULATOR_HOST and
// GOOGLE_APPLICATION_CREDENTIALS(_JSON).
// With no explicit mode, a set emulator host implies emulator mode.
func StorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{
		Mode:         StorageMode(strings.ToLower(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE")))),
		EmulatorHost: strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
		Credentials:  strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")),
	}
	if cfg.Credentials == "" {
		cfg.Credentials = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if cfg.Mode == "" {
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeEmulator
		}
	}
	return cfg, cfg.Validate()
}

func (cfg StorageConfig) Validate() error {
	switch cfg.Mode {
	case StorageModeGCS:
		return nil
	case StorageModeEmulator:
	default:
		return fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", cfg.Mode, StorageModeGCS, StorageModeEmulator)
	}
	if cfg.EmulatorHost == "" {
		return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", StorageModeEmulator)
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", cfg.EmulatorHost)
	}
	return nil
}

// ClientOptions are the options for storage.NewClient. The emulator never
// authenticates.
func (cfg StorageConfig) ClientOptions() []option.ClientOption {
	if cfg.Emulated() {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	switch creds := strings.TrimSpace(cfg.Credentials); {
	case creds == "":
	case strings.HasPrefix(creds, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	default:
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}
