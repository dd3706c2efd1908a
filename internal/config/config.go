// Package config resolves the host locations pthman works against and
// the ambient knobs (web address, log output). Values come from, in
// rising precedence: built-in defaults, an optional pthman.ini, and
// PTHMAN_* environment variables. A .env file is honored the usual way.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration.
type Config struct {
	DistDir  string // directory holding embeddable distribution archives
	SiteRoot string // user profile root holding Python<ver>/site-packages
	WebAddr  string // listen address for --web
	LogFile  string // log destination; empty means stderr
	LogLevel string // zerolog level name
}

// EnvConfigFile points at an explicit ini file; otherwise ./pthman.ini
// is picked up when present.
const EnvConfigFile = "PTHMAN_CONFIG"

// Load builds the effective configuration.
func Load() (Config, error) {
	_ = godotenv.Load()

	profile := userProfile()
	cfg := Config{
		DistDir:  filepath.Join(profile, "AppData", "Local"),
		SiteRoot: filepath.Join(profile, "AppData", "Roaming", "Python"),
		WebAddr:  ":8080",
		LogLevel: "info",
	}

	if err := applyINI(&cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// userProfile is the Windows profile root when set, the home directory
// otherwise. The embeddable distributions this tool manages live under a
// Windows profile layout even when driven from WSL.
func userProfile() string {
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		return profile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func applyINI(cfg *Config) error {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = "pthman.ini"
	}
	if _, err := os.Stat(path); err != nil {
		return nil // no ini file is fine
	}

	file, err := ini.Load(path)
	if err != nil {
		return err
	}

	paths := file.Section("paths")
	if v := paths.Key("dist_dir").String(); v != "" {
		cfg.DistDir = v
	}
	if v := paths.Key("site_root").String(); v != "" {
		cfg.SiteRoot = v
	}
	if v := file.Section("web").Key("addr").String(); v != "" {
		cfg.WebAddr = v
	}
	logSec := file.Section("log")
	if v := logSec.Key("file").String(); v != "" {
		cfg.LogFile = v
	}
	if v := logSec.Key("level").String(); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.DistDir, "PTHMAN_DIST_DIR")
	set(&cfg.SiteRoot, "PTHMAN_SITE_ROOT")
	set(&cfg.WebAddr, "PTHMAN_WEB_ADDR")
	set(&cfg.LogFile, "PTHMAN_LOG_FILE")
	set(&cfg.LogLevel, "PTHMAN_LOG_LEVEL")
}
