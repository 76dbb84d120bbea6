package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is picked up from the working directory when --config is
// not given.
const DefaultFileName = "release-gitter.yaml"

// Config carries per-project defaults for a fetch run. Explicit CLI flags
// override every field here.
type Config struct {
	Format            string            `yaml:"format"`
	Dest              string            `yaml:"dest"`
	Hostname          string            `yaml:"hostname"`
	Owner             string            `yaml:"owner"`
	Repo              string            `yaml:"repo"`
	GitURL            string            `yaml:"git_url"`
	Version           string            `yaml:"version"`
	Prerelease        bool              `yaml:"prerelease"`
	VersionGitTag     bool              `yaml:"version_git_tag"`
	VersionGitNoFetch bool              `yaml:"version_git_no_fetch"`
	MapSystem         map[string]string `yaml:"map_system"`
	MapArch           map[string]string `yaml:"map_arch"`
	Exec              []string          `yaml:"exec"`
	ExtractFiles      []string          `yaml:"extract_files"`
	ExtractAll        bool              `yaml:"extract_all"`
	Checksum          string            `yaml:"checksum"`
	URLOnly           bool              `yaml:"url_only"`
	UseTempDir        bool              `yaml:"use_temp_dir"`
}

// Load reads a config from a local path or an http(s) URL. Unknown keys are
// rejected so a typoed flag name in the file fails loudly.
func Load(location string) (*Config, error) {
	content, err := read(location)
	if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", location, err)
	}
	return &cfg, nil
}

// LoadDefault reads DefaultFileName from the working directory. A missing
// default file is not an error, just an empty config.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultFileName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return Load(DefaultFileName)
}

// IsRemoteLocation reports whether value names an http(s) URL instead of a
// local path.
func IsRemoteLocation(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

func read(location string) ([]byte, error) {
	if IsRemoteLocation(location) {
		return readRemote(location)
	}
	return os.ReadFile(location)
}

func readRemote(location string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("load config failed: %s status=%d", location, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
