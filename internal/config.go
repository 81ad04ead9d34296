package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/inkwell/internal/textclean"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Vault    VaultConfig       `yaml:"vault"`
	Device   DeviceConfig      `yaml:"device"`
	Importer ImporterConfig    `yaml:"importer"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Device.Validate(); err != nil {
		return err
	}
	if err := c.Importer.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the Markdown vault location and the daily notes folder
// within it.
type VaultConfig struct {
	Path          string `yaml:"path"`
	DailyNotesDir string `yaml:"daily_notes_dir"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// DeviceConfig holds the folder where the handwriting device drops its
// exports. An unset export root is a configuration error, not an empty-string
// path join.
type DeviceConfig struct {
	ExportRoot string `yaml:"export_root"`
}

// Validate validates the device configuration.
func (c *DeviceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ExportRoot, validation.Required),
	)
}

// ImporterConfig holds the placeholder tokens, the optional open command, and
// the recognized-text cleanup options.
type ImporterConfig struct {
	// LinkToken marks where the attachment embed is inserted in a daily note.
	LinkToken string `yaml:"link_token"`
	// TextToken marks where the recognized text is inserted.
	TextToken string `yaml:"text_token"`
	// OpenCommand, when set, is executed with the imported file's absolute
	// path appended (best-effort).
	OpenCommand []string `yaml:"open_command"`
	// Cleanup selects recognized-text post-processing steps.
	Cleanup textclean.Options `yaml:"cleanup"`
}

// Validate validates the importer configuration.
func (c *ImporterConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LinkToken, validation.Required),
		validation.Field(&c.TextToken, validation.Required),
	); err != nil {
		return err
	}
	if c.LinkToken == c.TextToken {
		return fmt.Errorf("importer: link_token and text_token must differ")
	}
	return nil
}

// SQLiteConfig holds the import journal database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the status API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:          "./vault",
			DailyNotesDir: "Daily",
		},
		Importer: ImporterConfig{
			LinkToken: "%%supernote-note%%",
			TextToken: "%%supernote-text%%",
			Cleanup: textclean.Options{
				Trim: true,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./inkwell.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
