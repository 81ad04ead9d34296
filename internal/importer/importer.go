// Package importer coordinates the daily-note import pipeline: match a
// device export by date, copy it into the managed attachment area, link it
// into the daily note, and substitute the recognized text.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/checksum"
	"github.com/starford/inkwell/internal/datekey"
	"github.com/starford/inkwell/internal/device"
	"github.com/starford/inkwell/internal/journal"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/notefile"
	"github.com/starford/inkwell/internal/placement"
	"github.com/starford/inkwell/internal/textclean"
	"github.com/starford/inkwell/internal/vault"
)

// Opener opens the imported file in the user's editor. Failures are logged
// and ignored; opening is strictly best-effort.
type Opener func(ctx context.Context, absPath string) error

// Publisher receives import lifecycle notifications. kind is one of
// "started", "imported", "skipped", "failed".
type Publisher func(kind string, o *models.Outcome)

// Options configures an Importer beyond its required collaborators.
type Options struct {
	// DailyNotesDir is the vault-relative folder holding daily notes.
	DailyNotesDir string
	// LinkToken is the placeholder replaced with the attachment embed.
	LinkToken string
	// TextToken is the placeholder replaced with the recognized text.
	TextToken string
	// Transform post-processes each page's recognized text (nil = identity).
	Transform textclean.Transform
	// Journal records terminal outcomes (nil = no journaling).
	Journal journal.Store
	// Publish receives lifecycle events (nil = none).
	Publish Publisher
	// Open opens the imported file, best-effort (nil = skipped).
	Open Opener
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Importer is the import pipeline state machine.
type Importer struct {
	vault   vault.Provider
	device  device.Provider
	decoder notefile.Decoder

	dailyDir  string
	linkToken string
	textToken string
	clean     textclean.Transform
	journal   journal.Store
	publish   Publisher
	open      Opener
	logger    *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates an importer over the given collaborators.
func New(v vault.Provider, dev device.Provider, dec notefile.Decoder, opts Options) *Importer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		vault:     v,
		device:    dev,
		decoder:   dec,
		dailyDir:  normalizeDir(opts.DailyNotesDir),
		linkToken: opts.LinkToken,
		textToken: opts.TextToken,
		clean:     opts.Transform,
		journal:   opts.Journal,
		publish:   opts.Publish,
		open:      opts.Open,
		logger:    logger,
		inflight:  make(map[string]struct{}),
	}
}

// HandleCreate is the watcher entry point for a newly created vault file.
// No-match conditions skip silently; fatal pipeline failures are logged.
func (imp *Importer) HandleCreate(ctx context.Context, rel string) {
	o, err := imp.ImportCreated(ctx, rel)
	if err != nil {
		imp.logger.Error("import failed",
			slog.String("path", rel),
			slog.String("error", err.Error()))
		return
	}
	switch o.Status {
	case models.StatusImported:
		imp.logger.Info("import complete",
			slog.String("path", rel),
			slog.String("imported", o.ImportedPath))
	case models.StatusSkipped:
		imp.logger.Debug("import skipped",
			slog.String("path", rel),
			slog.String("reason", o.Reason))
	}
}

// ImportCreated runs the pipeline for a file-creation event. Events that do
// not describe a freshly created daily note with a matching device export
// produce a skipped outcome, never an error.
func (imp *Importer) ImportCreated(ctx context.Context, rel string) (*models.Outcome, error) {
	rel = path.Clean(filepathToSlash(rel))
	base := path.Base(rel)

	if !strings.HasSuffix(base, ".md") {
		return skipped("", rel, "not a markdown note"), nil
	}
	if !imp.vault.Exists(rel) {
		return skipped("", rel, "created path is not a regular file"), nil
	}
	if normalizeDir(path.Dir(rel)) != imp.dailyDir {
		return skipped("", rel, "outside the daily notes folder"), nil
	}
	date, ok := datekey.ParseDailyNoteName(base)
	if !ok {
		return skipped("", rel, "basename is not a date"), nil
	}
	return imp.run(ctx, date, rel)
}

// ImportForDate runs the pipeline for a specific date's daily note. This is
// the manual trigger: the daily note must already exist in the configured
// folder.
func (imp *Importer) ImportForDate(ctx context.Context, date time.Time) (*models.Outcome, error) {
	rel := path.Join(imp.dailyDir, datekey.DailyNoteName(date))
	if !imp.vault.Exists(rel) {
		o := skipped(datekey.Encode(date), rel, "daily note does not exist")
		imp.finish(o, nil)
		return o, nil
	}
	return imp.run(ctx, date, rel)
}

// run guards against concurrent imports for the same date, then executes the
// pipeline and records the terminal outcome.
func (imp *Importer) run(ctx context.Context, date time.Time, rel string) (*models.Outcome, error) {
	key := datekey.Encode(date)

	if !imp.begin(key) {
		// A second trigger for a date already in flight is dropped; the
		// running import owns the journal entry.
		return skipped(key, rel, "import already in flight"), nil
	}
	defer imp.end(key)

	name, ok := device.Locate(imp.device, date)
	if !ok {
		o := skipped(key, rel, "no matching device export")
		imp.finish(o, nil)
		return o, nil
	}

	if imp.publish != nil {
		imp.publish("started", &models.Outcome{DateKey: key, DailyNote: rel})
	}

	o, err := imp.execute(ctx, date, key, rel, name)
	imp.finish(o, err)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// execute performs the ordered side effects of one import. There is no
// rollback: if a step fails, everything before it stays committed.
func (imp *Importer) execute(ctx context.Context, date time.Time, key, rel, name string) (*models.Outcome, error) {
	o := &models.Outcome{DateKey: key, DailyNote: rel}

	attachDir := placement.AttachmentDir(imp.dailyDir, date)
	imported := placement.ImportedFile(attachDir, key)
	o.ImportedPath = imported

	// Folder creation is idempotent: AlreadyExists is the expected outcome
	// on every import after the month's first.
	res, err := imp.vault.CreateFolder(attachDir)
	if err != nil {
		return o, fmt.Errorf("importer: ensure folder: %w", err)
	}
	if res == vault.AlreadyExists {
		imp.logger.Debug("attachment folder exists", slog.String("dir", attachDir))
	}

	data, err := imp.device.Read(name)
	if err != nil {
		return o, fmt.Errorf("importer: read export: %w", err)
	}

	// Duplicate destination writes fail loudly rather than overwrite.
	if imp.vault.Exists(imported) {
		return o, fmt.Errorf("importer: destination %s: %w", imported, apperr.ErrAlreadyExists)
	}
	if err := imp.vault.Write(imported, data); err != nil {
		return o, fmt.Errorf("importer: copy export: %w", err)
	}
	o.Checksum = checksum.Sum(data)

	embed := "![[" + path.Base(imported) + "]]"
	if err := imp.vault.ReplaceContent(rel, replaceOnce(imp.linkToken, embed)); err != nil {
		return o, fmt.Errorf("importer: link substitution: %w", err)
	}

	imp.openBestEffort(ctx, imported)

	// Re-read from the imported location, not the device source.
	copied, err := imp.vault.Read(imported)
	if err != nil {
		return o, fmt.Errorf("importer: re-read import: %w", err)
	}
	nb, err := imp.decoder.Decode(copied)
	if err != nil {
		return o, fmt.Errorf("importer: decode: %w", err)
	}
	text, err := ExtractText(nb, imp.clean)
	if err != nil {
		return o, fmt.Errorf("importer: extract text: %w", err)
	}

	// An empty blob is still a valid substitution.
	if err := imp.vault.ReplaceContent(rel, replaceOnce(imp.textToken, text)); err != nil {
		return o, fmt.Errorf("importer: text substitution: %w", err)
	}

	o.Status = models.StatusImported
	return o, nil
}

// openBestEffort opens the imported file in the user's editor. Any failure
// is logged and must never abort the remaining pipeline steps.
func (imp *Importer) openBestEffort(ctx context.Context, imported string) {
	if imp.open == nil {
		return
	}
	abs, err := imp.vault.Abs(imported)
	if err != nil {
		imp.logger.Warn("open: resolve failed",
			slog.String("path", imported),
			slog.String("error", err.Error()))
		return
	}
	if err := imp.open(ctx, abs); err != nil {
		imp.logger.Warn("open failed",
			slog.String("path", imported),
			slog.String("error", err.Error()))
	}
}

// finish journals the terminal outcome and publishes a lifecycle event.
// Journal failures are logged, never fatal to the import.
func (imp *Importer) finish(o *models.Outcome, err error) {
	if err != nil {
		o.Status = models.StatusFailed
		o.Reason = err.Error()
	}
	if imp.journal != nil && o.DateKey != "" {
		rec := journal.Record{
			DateKey:      o.DateKey,
			DailyNote:    o.DailyNote,
			ImportedPath: o.ImportedPath,
			Checksum:     o.Checksum,
			Status:       o.Status,
			Detail:       o.Reason,
		}
		if jErr := imp.journal.Upsert(rec); jErr != nil {
			imp.logger.Warn("journal write failed",
				slog.String("date_key", o.DateKey),
				slog.String("error", jErr.Error()))
		}
	}
	if imp.publish != nil {
		imp.publish(string(o.Status), o)
	}
}

func (imp *Importer) begin(key string) bool {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	if _, ok := imp.inflight[key]; ok {
		return false
	}
	imp.inflight[key] = struct{}{}
	return true
}

func (imp *Importer) end(key string) {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	delete(imp.inflight, key)
}

func skipped(key, rel, reason string) *models.Outcome {
	return &models.Outcome{
		Status:    models.StatusSkipped,
		DateKey:   key,
		DailyNote: rel,
		Reason:    reason,
	}
}

// replaceOnce substitutes the first occurrence of token. A template without
// the token is left unchanged (a no-op, not an error).
func replaceOnce(token, value string) func(string) string {
	return func(content string) string {
		if token == "" {
			return content
		}
		return strings.Replace(content, token, value, 1)
	}
}

// normalizeDir canonicalizes a vault-relative folder for comparison:
// trailing separators stripped, empty meaning the vault root.
func normalizeDir(dir string) string {
	dir = path.Clean(filepathToSlash(strings.TrimSuffix(dir, "/")))
	if dir == "" {
		return "."
	}
	return dir
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
