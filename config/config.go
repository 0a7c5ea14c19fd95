// Package config loads the scoreboard configuration,
// the frameworks to display and where the website is deployed.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/peterbourgon/mergemap"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed jsonschema/config_schema.json
var ConfigSchema []byte

// EnvPrefix is the prefix of the environment variables that override the config file
const EnvPrefix = "SCOREBOARD_"

// The states a framework can be tested in
const (
	Stable      = "stable"
	Development = "development"
)

// Config is the scoreboard configuration
type Config struct {
	Stable      Frameworks  `yaml:"stable"`
	Development Frameworks  `yaml:"development"`
	DeployPaths DeployPaths `yaml:"deploy_paths"`
	Render      Render      `yaml:"render"`
	Logging     Logging     `yaml:"logging"`
}

// Framework is a single backend on the scoreboard
type Framework struct {
	// Name is the display name, the framework key is used if empty
	Name       string `yaml:"name"`
	ResultsDir string `yaml:"results_dir"`
	// CorePackages are the package versions recorded with each run
	CorePackages []string `yaml:"core_packages"`
}

// Frameworks are keyed by their short name e.g. onnxruntime
type Frameworks map[string]Framework

// Keys returns the framework keys in alphabetical order
func (f Frameworks) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeployPaths are the folders the website is written to
type DeployPaths struct {
	Index     string `yaml:"index"`
	Subpages  string `yaml:"subpages"`
	Resources string `yaml:"resources"`
}

// Render controls the charts
type Render struct {
	// Window is the count of latest runs on a details chart
	Window int `yaml:"window"`
	// Format is the static chart image format, svg or png
	Format string `yaml:"format"`
	// Theme is the theme of the interactive charts
	Theme string `yaml:"theme"`
	// Interactive writes an interactive trend page for every framework
	Interactive bool `yaml:"interactive"`
}

// Logging sets up the logger
type Logging struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// State returns the frameworks of the state, stable or development
func (c Config) State(state string) (Frameworks, error) {
	switch state {
	case Stable:
		return c.Stable, nil
	case Development:
		return c.Development, nil
	default:
		return nil, fmt.Errorf("unknown state %q please choose %s or %s", state, Stable, Development)
	}
}

// CorePackages lists the core packages of every framework, including
// the framework key itself if it is set as a core package.
func (c Config) CorePackages() []string {
	seen := make(map[string]bool)
	var core []string

	for _, fws := range []Frameworks{c.Stable, c.Development} {
		for _, key := range fws.Keys() {
			for _, pkg := range fws[key].CorePackages {
				if !seen[pkg] {
					seen[pkg] = true
					core = append(core, pkg)
				}
			}
		}
	}

	return core
}

// Find searches both states for the framework key, stable first.
func (c Config) Find(key string) (Framework, string, bool) {
	if fw, ok := c.Stable[key]; ok {
		return fw, Stable, true
	}
	if fw, ok := c.Development[key]; ok {
		return fw, Development, true
	}
	return Framework{}, "", false
}

// defaults are the settings used when the config file does not set them
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"stable":      map[string]interface{}{},
		"development": map[string]interface{}{},
		"deploy_paths": map[string]interface{}{
			"index":     "./docs",
			"subpages":  "./docs",
			"resources": "./docs/resources",
		},
		"render": map[string]interface{}{
			"window":      15,
			"format":      "svg",
			"theme":       "westeros",
			"interactive": true,
		},
		"logging": map[string]interface{}{
			"format": "text",
			"level":  "info",
		},
	}
}

// Default is the configuration with no frameworks
func Default() Config {
	cfg, _ := decode(defaults())
	return cfg
}

// Load reads the configuration file, json or yaml, and merges it on top
// of the defaults. The merged configuration is validated against the config schema
// then environment overrides are applied. An empty path only uses the defaults.
func Load(path string) (Config, error) {
	merged := defaults()

	if path != "" {
		path, _ = filepath.Abs(path)
		cfgBytes, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading the config file %v: %w", path, err)
		}

		user := make(map[string]interface{})
		if err := yaml.Unmarshal(cfgBytes, &user); err != nil {
			return Config{}, fmt.Errorf("error extracting the config from %v: %w", path, err)
		}

		merged = mergemap.Merge(merged, user)
	}

	if err := Validate(merged); err != nil {
		return Config{}, err
	}

	cfg, err := decode(merged)
	if err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.CheckPaths(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ErrResourcesPath is returned when replacing the resources folder would
// remove the pages or the results
var ErrResourcesPath = errors.New("the resources folder can not hold the pages or the results")

// CheckPaths makes sure the resources folder, which is emptied on every build,
// is not and does not contain the index, subpages or any results folder.
func (c Config) CheckPaths() error {
	resources := strings.TrimSpace(c.DeployPaths.Resources)
	if resources == "" {
		return fmt.Errorf("%w: no resources folder is set", ErrResourcesPath)
	}

	kept := map[string]string{
		"index":    c.DeployPaths.Index,
		"subpages": c.DeployPaths.Subpages,
	}
	for _, fws := range []Frameworks{c.Stable, c.Development} {
		for key, fw := range fws {
			kept[key+" results_dir"] = fw.ResultsDir
		}
	}

	for name, p := range kept {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if within(resources, p) {
			return fmt.Errorf("%w: resources %v holds the %v %v", ErrResourcesPath, resources, name, p)
		}
	}

	return nil
}

// within reports if child is the parent folder or inside it
func within(parent, child string) bool {
	parent, errP := filepath.Abs(parent)
	child, errC := filepath.Abs(child)
	if errP != nil || errC != nil {
		return false
	}

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Validate checks a config body against the config schema
func Validate(body map[string]interface{}) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(ConfigSchema), gojsonschema.NewGoLoader(body))
	if err != nil {
		return fmt.Errorf("error validating the config %v", err)
	}

	if result.Valid() {
		return nil
	}

	errString := "the config is not valid, see errors :\n"
	for _, desc := range result.Errors() {
		errString += fmt.Sprintf("- %s\n", desc)
	}

	return fmt.Errorf("%s", strings.TrimSuffix(errString, "\n"))
}

func decode(body map[string]interface{}) (Config, error) {
	// round trip the merged map through yaml to fill the struct
	mid, err := yaml.Marshal(body)
	if err != nil {
		return Config{}, fmt.Errorf("error encoding the config %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(mid, &cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding the config %v", err)
	}

	if cfg.Stable == nil {
		cfg.Stable = Frameworks{}
	}
	if cfg.Development == nil {
		cfg.Development = Frameworks{}
	}

	return cfg, nil
}

// envOverrides are the environment variables read over the config file
type envOverrides struct {
	LogLevel  string `env:"SCOREBOARD_LOG_LEVEL"`
	LogFormat string `env:"SCOREBOARD_LOG_FORMAT"`
	// DeployDir moves every deploy path, with resources in a resources sub folder
	DeployDir string `env:"SCOREBOARD_DEPLOY_DIR"`
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := cleanenv.ReadEnv(&env); err != nil {
		return fmt.Errorf("error reading the %s environment variables %v", EnvPrefix, err)
	}

	if v := strings.TrimSpace(env.LogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(env.LogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if base := strings.TrimSpace(env.DeployDir); base != "" {
		cfg.DeployPaths.Index = base
		cfg.DeployPaths.Subpages = base
		cfg.DeployPaths.Resources = filepath.Join(base, "resources")
	}

	return nil
}
