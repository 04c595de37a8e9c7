package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tristendillon/assetpipe/core/logger"
	"gopkg.in/yaml.v3"
)

const FileName = "assetpipe.yaml"

type Config struct {
	Name         string       `yaml:"name"`
	Paths        Paths        `yaml:"paths"`
	Styles       Bundle       `yaml:"styles"`
	Scripts      Bundle       `yaml:"scripts"`
	Demo         Demo         `yaml:"demo"`
	Dependencies Dependencies `yaml:"dependencies"`
	Server       Server       `yaml:"server"`
}

type Paths struct {
	Src    string `yaml:"src"`
	Dist   string `yaml:"dist"`
	Demo   string `yaml:"demo"`
	Assets string `yaml:"assets"`
}

// Bundle describes one compiled output. Compiler, when set, is run with the
// input path appended and its stdout is taken as the compiled output.
type Bundle struct {
	Input       string   `yaml:"input"`
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Compiler    []string `yaml:"compiler,omitempty"`
}

type Demo struct {
	// Command replaces the built-in template renderer, e.g. a jekyll build.
	Command []string `yaml:"command,omitempty"`
	Pattern string   `yaml:"pattern"`
}

type Dependencies struct {
	Src              string   `yaml:"src"`
	Dest             string   `yaml:"dest"`
	DependenciesPath string   `yaml:"dependencies_path"`
	Folders          []string `yaml:"folders,omitempty"`
	Flat             bool     `yaml:"flat"`
	Base             string   `yaml:"base"`
	EngineFallback   bool     `yaml:"engine_fallback,omitempty"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func Default() *Config {
	return &Config{
		Name: "assetpipe",
		Paths: Paths{
			Src:    "src/",
			Dist:   "dist/",
			Demo:   "demo/",
			Assets: "assets/",
		},
		Styles: Bundle{
			Input:       "index.scss",
			Source:      "src/scss/",
			Destination: "dist/css/",
			Compiler:    []string{"sass", "--no-source-map", "--style=expanded", "--load-path=node_modules"},
		},
		Scripts: Bundle{
			Input:       "index.js",
			Source:      "src/js/",
			Destination: "dist/js/",
		},
		Demo: Demo{
			Pattern: "**/*.html",
		},
		Dependencies: Dependencies{
			Src:              "demo",
			Dest:             "assets/js",
			DependenciesPath: "./",
		},
		Server: Server{
			Host: "localhost",
			Port: 3000,
		},
	}
}

// Load reads assetpipe.yaml from the working directory.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}
	return LoadFile(filepath.Join(wd, FileName))
}

// LoadFile reads the config at path, falling back to Default when it does not
// exist. Keys missing from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug("No config file found at %s, using default config", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: %+v", *cfg)

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if c.Paths.Demo == "" {
		return fmt.Errorf("paths.demo must not be empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// DemoSource is the directory holding the un-built demo site.
func (c *Config) DemoSource() string {
	return filepath.Join(c.Paths.Src, c.Paths.Demo)
}

// AssetDirs lists the demo asset directories that receive published bundles
// of the given kind ("css" or "js").
func (c *Config) AssetDirs(kind string) []string {
	return []string{
		filepath.Join(c.Paths.Src, c.Paths.Demo, c.Paths.Assets, kind),
		filepath.Join(c.Paths.Demo, c.Paths.Assets, kind),
	}
}

// Save writes c to path as yaml.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
