package core

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSynapseConfig_Validate(t *testing.T) {
	t.Run("valid config with all validators", func(t *testing.T) {
		config := &SynapseConfig{ClientID: "id", ClientSecret: "secret", Sandbox: true}
		// Should not panic
		config.Validate(DefaultValidators()...)
		if config.Logger == nil {
			t.Error("expected a logger to be installed")
		}
	})

	t.Run("missing secret panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for missing client secret")
			}
		}()
		config := &SynapseConfig{ClientID: "id"}
		config.Validate(WithCredentials)
	})

	t.Run("bad base url panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for base url without scheme")
			}
		}()
		config := &SynapseConfig{ClientID: "id", ClientSecret: "secret", BaseURL: "localhost:8080"}
		config.Validate(WithBaseURL)
	})
}

func TestCredentials_Valid(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"both present", Credentials{ClientID: "id", ClientSecret: "secret"}, true},
		{"missing id", Credentials{ClientSecret: "secret"}, false},
		{"missing secret", Credentials{ClientID: "id"}, false},
		{"both missing", Credentials{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSynapseConfig_ApiBase(t *testing.T) {
	tests := []struct {
		name   string
		config SynapseConfig
		want   string
	}{
		{"sandbox", SynapseConfig{Sandbox: true}, "https://sandbox.synapsepay.com/api/3"},
		{"live", SynapseConfig{Sandbox: false}, "https://synapsepay.com/api/3"},
		{"override wins", SynapseConfig{Sandbox: true, BaseURL: "http://127.0.0.1:9000/api/3/"}, "http://127.0.0.1:9000/api/3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.ApiBase(); got != tt.want {
				t.Errorf("ApiBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithTimeouts(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		config := &SynapseConfig{}
		if err := WithTimeouts(DefaultConnectTimeout, DefaultReadTimeout, DefaultWriteTimeout)(config); err != nil {
			t.Fatalf("WithTimeouts() error = %v", err)
		}
		if *config.ConnectTimeout != 5*time.Second || *config.ReadTimeout != 10*time.Second || *config.WriteTimeout != 2*time.Second {
			t.Errorf("unexpected defaults: %v %v %v", *config.ConnectTimeout, *config.ReadTimeout, *config.WriteTimeout)
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		read := 30 * time.Second
		config := &SynapseConfig{ReadTimeout: &read}
		if err := WithTimeouts(time.Second, time.Second, time.Second)(config); err != nil {
			t.Fatalf("WithTimeouts() error = %v", err)
		}
		if *config.ReadTimeout != read {
			t.Errorf("ReadTimeout = %v, want %v", *config.ReadTimeout, read)
		}
	})

	t.Run("rejects non positive budgets", func(t *testing.T) {
		zero := time.Duration(0)
		config := &SynapseConfig{WriteTimeout: &zero}
		if err := WithTimeouts(time.Second, time.Second, time.Second)(config); err == nil {
			t.Error("expected error for zero write timeout")
		}
	})
}

func TestWithUserAgent(t *testing.T) {
	config := &SynapseConfig{}
	if err := WithUserAgent(config); err != nil {
		t.Fatalf("WithUserAgent() error = %v", err)
	}
	if !strings.HasPrefix(config.UserAgent, "go-synapse-client-"+ClientSemver().String()+",os:") {
		t.Errorf("unexpected user agent %q", config.UserAgent)
	}

	config = &SynapseConfig{UserAgent: "custom/1.0"}
	_ = WithUserAgent(config)
	if config.UserAgent != "custom/1.0" {
		t.Errorf("custom user agent overwritten: %q", config.UserAgent)
	}
}

func TestWithFillFn_IsProcessWide(t *testing.T) {
	previous := fillFunc
	t.Cleanup(func() { fillFunc = previous })

	var calls int
	custom := func(r Record, container any) error {
		calls++
		return nil
	}
	if err := WithFillFn(&SynapseConfig{FillFn: custom}); err != nil {
		t.Fatalf("WithFillFn() error = %v", err)
	}
	// a later session without a FillFn keeps the installed one
	if err := WithFillFn(&SynapseConfig{}); err != nil {
		t.Fatalf("WithFillFn() error = %v", err)
	}

	var target struct {
		ID string `json:"_id"`
	}
	if err := (Record{"_id": "u1"}).Fill(&target); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("custom fill called %d times, want 1", calls)
	}
	if target.ID != "" {
		t.Errorf("default fill ran, got ID %q", target.ID)
	}
}

func TestWithLogger_FromEnv(t *testing.T) {
	t.Setenv("SYNAPSE_LOG", "")
	config := &SynapseConfig{}
	if err := WithLogger(config); err != nil {
		t.Fatalf("WithLogger() error = %v", err)
	}
	if config.Logger.Core().Enabled(zap.DebugLevel) {
		t.Error("expected a no-op logger when SYNAPSE_LOG is unset")
	}

	t.Setenv("SYNAPSE_LOG", "debug")
	config = &SynapseConfig{}
	if err := WithLogger(config); err != nil {
		t.Fatalf("WithLogger() error = %v", err)
	}
	if !config.Logger.Core().Enabled(zap.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}
}
