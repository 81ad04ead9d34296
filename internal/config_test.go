package internal

import (
	"testing"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Device.ExportRoot = "/mnt/supernote/Note"
	return cfg
}

func TestConfigValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("defaults with export root should validate: %v", err)
	}
}

func TestConfigValidate_ExportRootRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when device export root is unset")
	}
}

func TestConfigValidate_TokensRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Importer.LinkToken = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty link token")
	}

	cfg = validConfig()
	cfg.Importer.TextToken = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty text token")
	}
}

func TestConfigValidate_TokensMustDiffer(t *testing.T) {
	cfg := validConfig()
	cfg.Importer.TextToken = cfg.Importer.LinkToken
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when both tokens are identical")
	}
}

func TestConfigValidate_Port(t *testing.T) {
	cfg := validConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}

	cfg = validConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	c := HTTPConfig{Port: 8080}
	if got := c.Address(); got != ":8080" {
		t.Errorf("Address() = %q", got)
	}
}

func TestAuthConfig_EmptyModeNormalized(t *testing.T) {
	c := AuthConfig{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", c.Mode, AuthModeDisabled)
	}
	if c.AuthEnabled() {
		t.Error("disabled mode should not report enabled")
	}
}

func TestAuthConfig_TokenModeRequiresToken(t *testing.T) {
	c := AuthConfig{Mode: AuthModeToken}
	if err := c.Validate(); err == nil {
		t.Error("expected error for token mode without a token")
	}

	c = AuthConfig{Mode: AuthModeToken, Token: "secret"}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if !c.AuthEnabled() {
		t.Error("token mode should report enabled")
	}
}

func TestAuthConfig_UnknownMode(t *testing.T) {
	c := AuthConfig{Mode: "basic"}
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown auth mode")
	}
}
