package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {

	dir := t.TempDir()
	jsonCfg := filepath.Join(dir, "config.json")
	os.WriteFile(jsonCfg, []byte(`{
		"stable": {
			"onnxruntime": {"name": "ONNX-Runtime", "results_dir": "./results/onnx-runtime/stable", "core_packages": ["onnxruntime"]}
		},
		"development": {
			"ngraph": {"name": "nGraph", "results_dir": "./results/ngraph/development", "core_packages": ["ngraph-onnx", "onnxruntime"]}
		},
		"deploy_paths": {"index": "./site"}
	}`), 0o644)

	cfg, err := Load(jsonCfg)

	Convey("Checking that a json config is merged with the defaults", t, func() {
		Convey("using a config with one framework per state and only the index path", func() {
			Convey("the frameworks are loaded and the unset paths keep their defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Stable["onnxruntime"], ShouldResemble, Framework{Name: "ONNX-Runtime", ResultsDir: "./results/onnx-runtime/stable", CorePackages: []string{"onnxruntime"}})
				So(cfg.Development.Keys(), ShouldResemble, []string{"ngraph"})
				So(cfg.DeployPaths, ShouldResemble, DeployPaths{Index: "./site", Subpages: "./docs", Resources: "./docs/resources"})
				So(cfg.Render.Window, ShouldEqual, 15)
				So(cfg.Render.Format, ShouldEqual, "svg")
				So(cfg.CorePackages(), ShouldResemble, []string{"onnxruntime", "ngraph-onnx"})
			})
		})
	})

	yamlCfg := filepath.Join(dir, "config.yaml")
	os.WriteFile(yamlCfg, []byte("render:\n  window: 5\n  format: png\nlogging:\n  level: debug\n"), 0o644)
	yamlLoaded, yamlErr := Load(yamlCfg)

	Convey("Checking that a yaml config is loaded", t, func() {
		Convey("using a yaml config that only changes the render settings", func() {
			Convey("the render settings are changed and there are no frameworks", func() {
				So(yamlErr, ShouldBeNil)
				So(yamlLoaded.Render.Window, ShouldEqual, 5)
				So(yamlLoaded.Render.Format, ShouldEqual, "png")
				So(yamlLoaded.Render.Theme, ShouldEqual, "westeros")
				So(yamlLoaded.Logging.Level, ShouldEqual, "debug")
				So(len(yamlLoaded.Stable), ShouldEqual, 0)
			})
		})
	})

	badCfgs := []string{
		`{"stable": {"pytorch": {"name": "Pytorch"}}}`,
		`{"render": {"window": 0}}`,
		`{"render": {"format": "gif"}}`,
	}

	for _, bad := range badCfgs {
		badPath := filepath.Join(dir, "bad.json")
		os.WriteFile(badPath, []byte(bad), 0o644)
		_, badErr := Load(badPath)

		Convey("Checking that invalid configs are rejected", t, func() {
			Convey("using "+bad, func() {
				Convey("an error from the config schema is returned", func() {
					So(badErr, ShouldNotBeNil)
					So(strings.HasPrefix(badErr.Error(), "the config is not valid"), ShouldBeTrue)
				})
			})
		})
	}

	_, missingErr := Load(filepath.Join(dir, "missing.yaml"))

	Convey("Checking that a missing config file is an error", t, func() {
		Convey("using a path that does not exist", func() {
			Convey("an error is returned", func() {
				So(missingErr, ShouldNotBeNil)
			})
		})
	})
}

func TestEnvOverrides(t *testing.T) {

	t.Setenv(EnvPrefix+"LOG_LEVEL", "WARN")
	t.Setenv(EnvPrefix+"DEPLOY_DIR", "/srv/scoreboard")

	cfg, err := Load("")

	Convey("Checking the environment overrides the config", t, func() {
		Convey("setting the log level and the deploy folder", func() {
			Convey("the level is lower case and every deploy path is under the folder", func() {
				So(err, ShouldBeNil)
				So(cfg.Logging.Level, ShouldEqual, "warn")
				So(cfg.DeployPaths.Index, ShouldEqual, "/srv/scoreboard")
				So(cfg.DeployPaths.Resources, ShouldEqual, filepath.Join("/srv/scoreboard", "resources"))
			})
		})
	})
}

func TestState(t *testing.T) {

	cfg := Default()
	cfg.Stable["onnxruntime"] = Framework{ResultsDir: "a"}
	cfg.Development["onnxruntime"] = Framework{ResultsDir: "b"}

	stable, stableErr := cfg.State(Stable)
	_, unknownErr := cfg.State("nightly")
	found, state, ok := cfg.Find("onnxruntime")

	Convey("Checking the frameworks of each state", t, func() {
		Convey("using a framework in both states", func() {
			Convey("stable is found first and unknown states are an error", func() {
				So(stableErr, ShouldBeNil)
				So(stable["onnxruntime"].ResultsDir, ShouldEqual, "a")
				So(unknownErr, ShouldNotBeNil)
				So(ok, ShouldBeTrue)
				So(state, ShouldEqual, Stable)
				So(found.ResultsDir, ShouldEqual, "a")
			})
		})
	})

	var buf bytes.Buffer
	logger := InitLogger(&buf, "json", "warn")
	logger.Info("hidden")
	logger.Warn("shown")

	Convey("Checking the logger level and format", t, func() {
		Convey("using a json logger at warn level", func() {
			Convey("only the warning is written as json", func() {
				So(strings.Contains(buf.String(), "hidden"), ShouldBeFalse)
				So(strings.Contains(buf.String(), `"msg":"shown"`), ShouldBeTrue)
			})
		})
	})
}

func TestCheckPaths(t *testing.T) {

	unsafe := map[string]func(*Config){
		"resources as the index": func(c *Config) { c.DeployPaths.Resources = c.DeployPaths.Index },
		"resources above the subpages": func(c *Config) {
			c.DeployPaths.Subpages = "./docs/resources/pages"
		},
		"resources over the results": func(c *Config) {
			c.Stable["onnxruntime"] = Framework{ResultsDir: "./docs/resources/onnxruntime"}
		},
		"no resources": func(c *Config) { c.DeployPaths.Resources = "" },
	}

	for name, change := range unsafe {
		cfg := Default()
		change(&cfg)
		err := cfg.CheckPaths()

		Convey("Checking the resources folder can not remove the website or results", t, func() {
			Convey("using "+name, func() {
				Convey("an ErrResourcesPath error is returned", func() {
					So(errors.Is(err, ErrResourcesPath), ShouldBeTrue)
				})
			})
		})
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	os.WriteFile(cfgPath, []byte("deploy_paths:\n  index: ./site\n  resources: ./site\n"), 0o644)
	_, loadErr := Load(cfgPath)

	safe := Default()
	safe.Stable["onnxruntime"] = Framework{ResultsDir: "./docs/results/onnxruntime"}

	Convey("Checking the deploy paths of a loaded config", t, func() {
		Convey("using a config that deploys the resources over the index", func() {
			Convey("the config is rejected", func() {
				So(errors.Is(loadErr, ErrResourcesPath), ShouldBeTrue)
			})
		})
		Convey("using the default paths with results next to the resources", func() {
			Convey("the paths are accepted", func() {
				So(safe.CheckPaths(), ShouldBeNil)
			})
		})
	})
}
