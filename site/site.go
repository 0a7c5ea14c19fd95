// Package site generates the static scoreboard website from the
// test results of every framework.
package site

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/google/uuid"
	"github.com/metarex-media/scoreboard-tool/chart"
	"github.com/metarex-media/scoreboard-tool/config"
	"github.com/metarex-media/scoreboard-tool/scoreboard"
	"github.com/metarex-media/scoreboard-tool/trend"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.mustache
var templateFS embed.FS

//go:embed resources
var resourceFS embed.FS

// ManifestName is the file listing every generated file, written to the index folder
const ManifestName = "manifest.yaml"

// Generator writes the website pages
type Generator struct {
	Config  config.Config
	Palette chart.Palette
	Logger  *slog.Logger
	// Now is the generation time, time.Now is used if zero
	Now time.Time

	index   *mustache.Template
	details *mustache.Template

	buildID string
	mu      sync.Mutex
	written []ManifestFile
}

// Manifest lists the files of a single website build
type Manifest struct {
	BuildID string         `yaml:"build_id"`
	Date    string         `yaml:"date"`
	Files   []ManifestFile `yaml:"files"`
}

// ManifestFile is a generated file, the path is relative to the index folder
type ManifestFile struct {
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256"`
}

// New parses the page templates for the config
func New(cfg config.Config, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// the resources folder is emptied by every build
	if err := cfg.CheckPaths(); err != nil {
		return nil, err
	}

	partials, err := loadPartials()
	if err != nil {
		return nil, err
	}
	provider := &mustache.StaticProvider{Partials: partials}

	index, err := mustache.ParseStringPartials(partials["index"], provider)
	if err != nil {
		return nil, fmt.Errorf("error parsing the index template %v", err)
	}

	details, err := mustache.ParseStringPartials(partials["details"], provider)
	if err != nil {
		return nil, fmt.Errorf("error parsing the details template %v", err)
	}

	return &Generator{
		Config:  cfg,
		Palette: chart.DefaultPalette(),
		Logger:  logger.With(slog.String("module", "site")),
		index:   index,
		details: details,
	}, nil
}

func loadPartials() (map[string]string, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("error reading the templates %v", err)
	}

	partials := make(map[string]string, len(entries))
	for _, e := range entries {
		body, err := templateFS.ReadFile(path.Join("templates", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("error reading the template %v: %w", e.Name(), err)
		}
		partials[strings.TrimSuffix(e.Name(), ".mustache")] = string(body)
	}

	return partials, nil
}

// Build loads the stable and development results then generates the website.
func (g *Generator) Build(ctx context.Context) (Manifest, error) {
	stable, err := scoreboard.Prepare(ctx, g.Config, config.Stable, g.Logger)
	if err != nil {
		return Manifest{}, err
	}

	dev, err := scoreboard.Prepare(ctx, g.Config, config.Development, g.Logger)
	if err != nil {
		return Manifest{}, err
	}

	return g.Generate(ctx, stable, dev)
}

// Generate writes the index and details pages of both states, copies the
// resources and writes the manifest of the build.
func (g *Generator) Generate(ctx context.Context, stable, dev scoreboard.Database) (Manifest, error) {
	if g.Now.IsZero() {
		g.Now = time.Now()
	}

	g.buildID = uuid.New().String()
	g.written = nil

	paths := g.Config.DeployPaths
	for _, dir := range []string{paths.Index, paths.Subpages} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Manifest{}, fmt.Errorf("error generating the deploy folder %v: %w", dir, err)
		}
	}

	// resources are replaced first, the pages may share their folder
	if err := g.copyResources(); err != nil {
		return Manifest{}, err
	}

	errs, ctx := errgroup.WithContext(ctx)

	errs.Go(func() error {
		return g.indexPage(ctx, stable, paths.Index, "index.html")
	})
	errs.Go(func() error {
		return g.indexPage(ctx, dev, paths.Subpages, "index_dev.html")
	})

	for _, db := range []scoreboard.Database{stable, dev} {
		db := db
		for _, entry := range db.Entries {
			entry := entry
			errs.Go(func() error {
				return g.detailsPage(ctx, db.State, entry)
			})
		}
	}

	if err := errs.Wait(); err != nil {
		return Manifest{}, err
	}

	manifest := Manifest{BuildID: g.buildID, Date: g.Now.Format(trend.DateLayout), Files: g.written}
	sort.Slice(manifest.Files, func(i, j int) bool { return manifest.Files[i].Path < manifest.Files[j].Path })

	manifestBytes, err := yaml.Marshal(manifest)
	if err != nil {
		return Manifest{}, fmt.Errorf("error encoding the manifest %v", err)
	}

	if err := os.WriteFile(filepath.Join(paths.Index, ManifestName), manifestBytes, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("error writing the manifest %v", err)
	}

	g.Logger.Info("generated website", slog.String("build_id", g.buildID), slog.Int("files", len(manifest.Files)))

	return manifest, nil
}

// stateSuffix is the page name suffix of the state
func stateSuffix(state string) string {
	if state == config.Development {
		return "dev"
	}
	return config.Stable
}

// DetailsPageName is the details page of a framework
func DetailsPageName(key, state string) string {
	return fmt.Sprintf("%s_details_%s.html", key, stateSuffix(state))
}

// TrendPageName is the interactive trend page of a framework
func TrendPageName(key, state string) string {
	return fmt.Sprintf("%s_trend_%s.html", key, stateSuffix(state))
}

// write saves the file and records it in the manifest
func (g *Generator) write(target string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("error generating the folder %v: %w", filepath.Dir(target), err)
	}

	if err := os.WriteFile(target, body, 0o644); err != nil {
		return fmt.Errorf("error writing %v: %w", target, err)
	}

	sum := sha256.Sum256(body)
	rel := relative(g.Config.DeployPaths.Index, target)

	g.mu.Lock()
	g.written = append(g.written, ManifestFile{Path: rel, SHA256: hex.EncodeToString(sum[:])})
	g.mu.Unlock()

	g.Logger.Debug("written", slog.String("file", target))

	return nil
}

// relative is the slash separated path of target from the dir
func relative(dir, target string) string {
	absDir, _ := filepath.Abs(dir)
	absTarget, _ := filepath.Abs(target)

	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return filepath.ToSlash(absTarget)
	}
	return filepath.ToSlash(rel)
}

// link is the url of the page in the target dir from a page in dir
func link(dir, targetDir, name string) string {
	return path.Join(relative(dir, targetDir), name)
}

// copyResources replaces the deployed resources with the embedded ones
func (g *Generator) copyResources() error {
	dest := g.Config.DeployPaths.Resources
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("error removing the old resources %v: %w", dest, err)
	}

	return fs.WalkDir(resourceFS, "resources", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		body, err := resourceFS.ReadFile(p)
		if err != nil {
			return err
		}

		return g.write(filepath.Join(dest, filepath.FromSlash(strings.TrimPrefix(p, "resources/"))), body)
	})
}

// render fills the template and writes the page
func (g *Generator) render(ctx context.Context, tmpl *mustache.Template, target string, values map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var page bytes.Buffer
	if err := tmpl.FRender(&page, values); err != nil {
		return fmt.Errorf("error rendering %v: %w", target, err)
	}

	return g.write(target, page.Bytes())
}

// common are the values every page uses
func (g *Generator) common(dir, title, state string) map[string]interface{} {
	paths := g.Config.DeployPaths
	return map[string]interface{}{
		"title":        title,
		"dev":          state == config.Development,
		"build_id":     g.buildID,
		"date":         g.Now.Format(trend.DateLayout),
		"resources":    relative(dir, paths.Resources),
		"stable_index": link(dir, paths.Index, "index.html"),
		"dev_index":    link(dir, paths.Subpages, "index_dev.html"),
	}
}

func versionsContext(versions []trend.PackageVersion) []map[string]string {
	out := make([]map[string]string, len(versions))
	for i, v := range versions {
		out[i] = map[string]string{"name": v.Name, "version": string(v.Version)}
	}
	return out
}
