package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"janus/internal/profile"
)

// Config is the immutable result of loading janus.toml. After Load returns,
// nothing mutates it; sessions and the cache read it concurrently.
type Config struct {
	Root    string
	Profile profile.Profile
	NPU     bool
	// MaxDiagnostics caps each unit's bag; 0 takes the default.
	MaxDiagnostics int
	// CacheDir is where analysis results are memoized. Empty disables the
	// cache.
	CacheDir string
}

// EnvProfile is consulted once during Load; the manifest wins when both are
// set.
const EnvProfile = "JANUS_PROFILE"

type manifest struct {
	Project struct {
		Name    string `toml:"name"`
		Profile string `toml:"profile"`
		NPU     bool   `toml:"npu"`
	} `toml:"project"`
	Diagnostics struct {
		Max int `toml:"max"`
	} `toml:"diagnostics"`
	Cache struct {
		Dir      string `toml:"dir"`
		Disabled bool   `toml:"disabled"`
	} `toml:"cache"`
}

// Default returns the configuration used when no manifest exists: the core
// profile, no NPU gate, cache under .janus-cache in the working directory.
func Default(dir string) Config {
	return Config{
		Root:     dir,
		Profile:  profile.Core,
		CacheDir: filepath.Join(dir, ".janus-cache"),
	}
}

// Load reads janus.toml at path. The JANUS_PROFILE environment variable is
// resolved here, exactly once, so later profile queries are plain reads.
func Load(path string) (Config, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	root := filepath.Dir(path)
	cfg := Default(root)

	name := strings.TrimSpace(m.Project.Profile)
	if name == "" {
		name = strings.TrimSpace(os.Getenv(EnvProfile))
	}
	if name != "" {
		p, ok := profile.Parse(name)
		if !ok {
			return Config{}, fmt.Errorf("%s: unknown profile %q (known: %s)",
				path, name, strings.Join(profile.Names(), ", "))
		}
		cfg.Profile = p
	}
	cfg.NPU = m.Project.NPU
	if m.Diagnostics.Max > 0 {
		cfg.MaxDiagnostics = m.Diagnostics.Max
	}
	if meta.IsDefined("cache") {
		if m.Cache.Disabled {
			cfg.CacheDir = ""
		} else if m.Cache.Dir != "" {
			dir := m.Cache.Dir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(root, dir)
			}
			cfg.CacheDir = dir
		}
	}
	return cfg, nil
}

// LoadFrom finds and loads the nearest manifest above startDir, falling back
// to defaults when none exists.
func LoadFrom(startDir string) (Config, error) {
	path, ok, err := FindJanusToml(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		abs, err := filepath.Abs(startDir)
		if err != nil {
			abs = startDir
		}
		cfg := Default(abs)
		if name := strings.TrimSpace(os.Getenv(EnvProfile)); name != "" {
			if p, ok := profile.Parse(name); ok {
				cfg.Profile = p
			}
		}
		return cfg, nil
	}
	return Load(path)
}

// Fingerprint folds the settings that influence analysis output into a
// stable string for cache keying.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("profile=%s;npu=%t;max=%d", c.Profile, c.NPU, c.MaxDiagnostics)
}
