package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/moolen/rfpagents/internal/config"
	"github.com/moolen/rfpagents/internal/logging"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.TracingConfig
		expectError bool
	}{
		{
			name: "disabled",
			cfg:  config.TracingConfig{},
		},
		{
			name:        "enabled without endpoint",
			cfg:         config.TracingConfig{Enabled: true},
			expectError: true,
		},
		{
			name: "TLS with insecure skip verify",
			cfg: config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				TLSInsecure: true,
			},
		},
		{
			name: "TLS with missing CA certificate",
			cfg: config.TracingConfig{
				Enabled:   true,
				Endpoint:  "localhost:4317",
				TLSCAPath: "/nonexistent/ca.crt",
			},
			expectError: true,
		},
		{
			name: "plaintext",
			cfg: config.TracingConfig{
				Enabled:  true,
				Endpoint: "localhost:4317",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg, "test")
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider.IsEnabled() != tt.cfg.Enabled {
				t.Errorf("IsEnabled() = %v, want %v", provider.IsEnabled(), tt.cfg.Enabled)
			}
			if provider.Tracer("test") == nil {
				t.Error("Tracer() returned nil")
			}
			if err := provider.Shutdown(context.Background()); err != nil {
				t.Errorf("Shutdown() error: %v", err)
			}
		})
	}
}

func TestTLSConfig_BadPEM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.crt")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := exporterOptions(config.TracingConfig{Endpoint: "localhost:4317", TLSCAPath: path}, logging.GetLogger("test"))
	if err == nil {
		t.Fatal("expected error for invalid PEM")
	}
}
