package template

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Aman-CERP/dev-session-buddy/internal/copier"
	"github.com/Aman-CERP/dev-session-buddy/internal/document"
	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
)

// ConfigFile is the project configuration written at the project root.
const ConfigFile = "dev-session-buddy.yaml"

// StateDir is the hidden per-project tool state directory.
const StateDir = ".dev-session-buddy"

// CreatedAtLayout is ISO-8601 in UTC with millisecond precision.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// FrameworkVue is the framework that gets a generated package.json.
const FrameworkVue = "vue"

// ScaffoldDirs are created in every project.
var ScaffoldDirs = []string{"src", "tests", "docs", StateDir}

// Manager applies templates found through a Locator.
//
// Apply is not safe for concurrent use on overlapping project directories.
type Manager struct {
	locator *Locator
	now     func() time.Time
	logger  *slog.Logger
	post    map[string]PostProcessor
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source for the createdAt field.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger used for stage tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithPostProcessor registers pp for framework, replacing any existing one.
// A nil pp removes post-processing for framework.
func WithPostProcessor(framework string, pp PostProcessor) Option {
	return func(m *Manager) {
		if pp == nil {
			delete(m.post, framework)
			return
		}
		m.post[framework] = pp
	}
}

// NewManager creates a Manager. Vue post-processing is registered by default.
func NewManager(locator *Locator, opts ...Option) *Manager {
	m := &Manager{
		locator: locator,
		now:     time.Now,
		logger:  slog.Default(),
		post: map[string]PostProcessor{
			FrameworkVue: WriteVueManifest,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Result describes a materialized project.
type Result struct {
	ProjectDir  string
	Framework   string
	Preset      Preset
	TemplateDir string

	// Config is the project configuration written to ConfigPath.
	Config     *document.Map
	ConfigPath string

	// Copied lists the top-level template entries copied into ProjectDir.
	Copied []string

	// Generated lists files written by framework post-processing.
	Generated []string
}

// Apply materializes the framework template into projectDir using preset.
// Any failure is returned as a TemplateApplicationError. Files written before
// the failure are left in place.
func (m *Manager) Apply(projectDir, framework, preset string) error {
	_, err := m.ApplyWithResult(projectDir, framework, preset)
	return err
}

// ApplyWithResult is Apply that also reports what was written.
func (m *Manager) ApplyWithResult(projectDir, framework, preset string) (*Result, error) {
	res, err := m.apply(projectDir, framework, preset)
	if err != nil {
		m.logger.Debug("template application failed",
			slog.String("project_dir", projectDir),
			slog.String("framework", framework),
			slog.String("preset", preset),
			slog.String("error", err.Error()))
		return nil, dsberrors.TemplateApplicationError(err).
			WithDetail("framework", framework).
			WithDetail("project_dir", projectDir)
	}
	return res, nil
}

func (m *Manager) apply(projectDir, framework, presetName string) (*Result, error) {
	preset, err := ParsePreset(presetName)
	if err != nil {
		return nil, err
	}
	templateDir, err := m.locator.Dir(framework)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	base, err := document.Load(filepath.Join(templateDir, BaseConfigFile))
	if err != nil {
		return nil, err
	}
	m.logger.Debug("loaded base configuration",
		slog.String("template_dir", templateDir),
		slog.Int("keys", base.Len()))

	if err := m.createScaffold(projectDir, base); err != nil {
		return nil, err
	}

	copied, err := m.copyTemplate(templateDir, projectDir)
	if err != nil {
		return nil, err
	}

	cfg := BuildConfig(base, framework, preset, m.now())
	cfgPath := filepath.Join(projectDir, ConfigFile)
	if err := document.Save(cfgPath, cfg); err != nil {
		return nil, err
	}
	m.logger.Debug("saved project configuration", slog.String("path", cfgPath))

	var generated []string
	if pp, ok := m.post[framework]; ok {
		generated, err = pp(projectDir, base)
		if err != nil {
			return nil, err
		}
		m.logger.Debug("framework post-processing complete",
			slog.String("framework", framework),
			slog.Int("files", len(generated)))
	}

	return &Result{
		ProjectDir:  projectDir,
		Framework:   framework,
		Preset:      preset,
		TemplateDir: templateDir,
		Config:      cfg,
		ConfigPath:  cfgPath,
		Copied:      copied,
		Generated:   generated,
	}, nil
}

// createScaffold creates ScaffoldDirs plus src/<dir> for each string in the
// base configuration's directories list.
func (m *Manager) createScaffold(projectDir string, base *document.Map) error {
	dirs := make([]string, 0, len(ScaffoldDirs))
	for _, d := range ScaffoldDirs {
		dirs = append(dirs, filepath.Join(projectDir, d))
	}
	for _, d := range base.Strings("directories") {
		if !filepath.IsLocal(d) {
			return fmt.Errorf("directory %q must be relative to src", d)
		}
		dirs = append(dirs, filepath.Join(projectDir, "src", d))
	}

	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	m.logger.Debug("created scaffold", slog.Int("directories", len(dirs)))
	return nil
}

// copyTemplate copies every entry of templateDir except BaseConfigFile.
func (m *Manager) copyTemplate(templateDir, projectDir string) ([]string, error) {
	entries, err := os.ReadDir(templateDir)
	if err != nil {
		return nil, dsberrors.CopyError(err)
	}

	var copied []string
	for _, entry := range entries {
		if entry.Name() == BaseConfigFile {
			continue
		}
		src := filepath.Join(templateDir, entry.Name())
		dst := filepath.Join(projectDir, entry.Name())
		if err := copier.CopyDir(src, dst); err != nil {
			return copied, err
		}
		copied = append(copied, entry.Name())
	}
	m.logger.Debug("copied template files", slog.Int("entries", len(copied)))
	return copied, nil
}

// BuildConfig returns the project configuration: base with the preset applied,
// followed by framework, preset and createdAt.
func BuildConfig(base *document.Map, framework string, preset Preset, now time.Time) *document.Map {
	cfg := preset.Apply(base)
	cfg.Set("framework", framework)
	cfg.Set("preset", string(preset))
	cfg.Set("createdAt", now.UTC().Format(CreatedAtLayout))
	return cfg
}
