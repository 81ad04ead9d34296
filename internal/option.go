package internal

import (
	"io"

	"github.com/starford/inkwell/internal/importer"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	opener    importer.Opener
	logOutput io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOpener overrides the opener built from importer.open_command.
func WithOpener(open importer.Opener) Option {
	return func(a *application) {
		a.opener = open
	}
}
