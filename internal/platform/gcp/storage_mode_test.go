package gcp

import "testing"

func TestStorageConfigFromEnv(t *testing.T) {
	cases := []struct {
		name    string
		mode    string
		host    string
		want    StorageMode
		wantErr bool
	}{
		{name: "default", want: StorageModeGCS},
		{name: "explicit gcs ignores host", mode: "gcs", host: "http://fake-gcs:4443", want: StorageModeGCS},
		{name: "host implies emulator", host: "http://fake-gcs:4443", want: StorageModeEmulator},
		{name: "explicit emulator", mode: "GCS_EMULATOR", host: "http://fake-gcs:4443", want: StorageModeEmulator},
		{name: "emulator without host", mode: "gcs_emulator", wantErr: true},
		{name: "emulator with relative host", mode: "gcs_emulator", host: "fake-gcs:4443", wantErr: true},
		{name: "unknown mode", mode: "local", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OBJECT_STORAGE_MODE", tc.mode)
			t.Setenv("STORAGE_EMULATOR_HOST", tc.host)
			cfg, err := StorageConfigFromEnv()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got cfg=%+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("StorageConfigFromEnv: %v", err)
			}
			if cfg.Mode != tc.want {
				t.Fatalf("mode: want=%q got=%q", tc.want, cfg.Mode)
			}
		})
	}
}

func TestStorageConfigFromEnv_CredentialsPrecedence(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")

	cfg, err := StorageConfigFromEnv()
	if err != nil {
		t.Fatalf("StorageConfigFromEnv: %v", err)
	}
	if cfg.Credentials != "/secrets/sa.json" {
		t.Fatalf("file path not picked up: %q", cfg.Credentials)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", `{"type":"service_account"}`)
	cfg, _ = StorageConfigFromEnv()
	if cfg.Credentials != `{"type":"service_account"}` {
		t.Fatalf("inline json should win: %q", cfg.Credentials)
	}
}

func TestStorageConfig_ClientOptions(t *testing.T) {
	cases := []struct {
		name string
		cfg  StorageConfig
		want int
	}{
		{"emulator", StorageConfig{Mode: StorageModeEmulator, EmulatorHost: "http://fake-gcs:4443", Credentials: "/ignored"}, 1},
		{"adc", StorageConfig{Mode: StorageModeGCS}, 1},
		{"file", StorageConfig{Mode: StorageModeGCS, Credentials: "/secrets/sa.json"}, 2},
		{"inline", StorageConfig{Mode: StorageModeGCS, Credentials: `{"type":"service_account"}`}, 2},
	}
	for _, tc := range cases {
		if got := len(tc.cfg.ClientOptions()); got != tc.want {
			t.Fatalf("%s: want %d options, got %d", tc.name, tc.want, got)
		}
	}
}
