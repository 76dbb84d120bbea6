package fetch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IamTheFij/release-gitter/internal/cli/archive"
	"github.com/IamTheFij/release-gitter/internal/cli/postrun"
	"github.com/IamTheFij/release-gitter/pkg/manifest"
	"github.com/IamTheFij/release-gitter/pkg/platform"
	"github.com/IamTheFij/release-gitter/pkg/release"
	"github.com/IamTheFij/release-gitter/pkg/remote"
)

// ConfigError marks a failure caused by contradictory or malformed options
// rather than by the repository or the release host.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// Request carries everything one fetch run needs. Zero values mean
// "detect": repository coordinates come from the git remote, the version
// from a project manifest, platform labels from the running system.
type Request struct {
	// Format is the asset name template with {version}, {system} and {arch}
	// placeholders.
	Format string
	// DestDir receives downloaded or extracted files. Empty means the
	// working directory.
	DestDir string
	// WorkDir is where git and project manifests are consulted. Empty means
	// the working directory.
	WorkDir string

	Hostname string
	Owner    string
	Repo     string
	GitURL   string

	Version           string
	Prerelease        bool
	VersionGitTag     bool
	VersionGitNoFetch bool

	MapSystem map[string]string
	MapArch   map[string]string

	ExtractFiles []string
	ExtractAll   bool
	Exec         []string
	Checksum     string
	URLOnly      bool

	// Client overrides the release API client, mostly for tests.
	Client *Client
	// RemoteLookup overrides how the VCS remote URL is read.
	RemoteLookup remote.LookupFunc
}

// Result reports what a fetch run produced.
type Result struct {
	// URL is the download URL of the matched asset.
	URL string
	// Asset is the matched release asset.
	Asset Asset
	// Version is the concrete version substituted into the template.
	Version string
	// Files lists the paths written under DestDir. Empty in URL-only mode.
	Files []string
}

// Run resolves the repository and version, selects the matching release
// asset and either reports its URL or downloads it into DestDir.
func (r Request) Run() (*Result, error) {
	tmpl, err := release.ParseTemplate(r.Format)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	if r.ExtractAll && len(r.ExtractFiles) > 0 {
		return nil, &ConfigError{Err: errors.New("cannot combine an extract file list with extracting all files")}
	}
	if _, _, err := parseChecksumSpec(r.Checksum); err != nil {
		return nil, &ConfigError{Err: err}
	}

	ref, err := r.resolveRepository()
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved repository", "host", ref.Host, "owner", ref.Owner, "repo", ref.Repo)

	version, err := r.resolveVersion()
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved version spec", "version", version)

	client := r.Client
	if client == nil {
		client = NewClient()
	}
	rel, version, err := client.FetchRelease(ref, version, r.Prerelease)
	if err != nil {
		return nil, err
	}
	slog.Debug("selected release", "tag", rel.TagName, "assets", rel.AssetNames())

	mapper := platform.NewMapper(r.MapSystem, r.MapArch)
	system, arch := mapper.Detect()
	values := Values{Version: version, System: system, Arch: arch}

	asset, err := tmpl.Match(rel.Assets, values)
	if err != nil {
		return nil, err
	}

	result := &Result{URL: asset.DownloadURL, Asset: asset, Version: version}
	if r.URLOnly {
		return result, nil
	}

	slog.Info("downloading asset", "name", asset.Name, "tag", rel.TagName, "url", asset.DownloadURL)
	content, err := client.downloadAsset(asset)
	if err != nil {
		return nil, err
	}
	if err := verifyChecksum(content, r.Checksum); err != nil {
		return nil, err
	}

	destDir := r.DestDir
	if destDir == "" {
		destDir = "."
	}
	result.Files, err = r.placeFiles(asset, content, values, destDir)
	if err != nil {
		return nil, err
	}
	slog.Debug("wrote files", "dest", destDir, "count", len(result.Files))

	if err := r.runCommands(asset, values, destDir); err != nil {
		return nil, err
	}
	return result, nil
}

// resolveRepository works out which repository to query, preferring explicit
// coordinates over an explicit URL over the git remote of WorkDir.
func (r Request) resolveRepository() (Ref, error) {
	lookup := r.RemoteLookup
	if lookup == nil {
		workDir := r.workDir()
		lookup = func() (string, error) { return remote.OriginURL(workDir) }
	}
	overrides := remote.Overrides{Host: r.Hostname, Owner: r.Owner, Repo: r.Repo}
	return remote.Resolve(overrides, r.GitURL, lookup)
}

// resolveVersion works out which version to request. An explicit version is
// used verbatim, then the latest git tag when asked for, then a project
// manifest. With none of those the run fails rather than silently assuming
// the latest release.
func (r Request) resolveVersion() (string, error) {
	if r.Version != "" {
		return r.Version, nil
	}
	if r.VersionGitTag {
		return remote.DescribeTag(r.workDir(), !r.VersionGitNoFetch)
	}
	return manifest.ResolveVersion(r.workDir())
}

// placeFiles writes the asset into destDir, either extracting archive
// members or storing the asset file as-is.
func (r Request) placeFiles(asset Asset, content []byte, values Values, destDir string) ([]string, error) {
	if r.ExtractAll || len(r.ExtractFiles) > 0 {
		var members []string
		for _, member := range r.ExtractFiles {
			members = append(members, release.ExpandTokens(member, asset.Name, values))
		}
		return archive.Extract(asset.Name, content, members, destDir)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}
	target := filepath.Join(destDir, asset.Name)
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return nil, fmt.Errorf("write asset %s: %w", target, err)
	}
	return []string{target}, nil
}

// runCommands runs the post-download commands in destDir with the run's
// tokens expanded.
func (r Request) runCommands(asset Asset, values Values, destDir string) error {
	if len(r.Exec) == 0 {
		return nil
	}
	commands := make([]string, 0, len(r.Exec))
	for _, cmdLine := range r.Exec {
		commands = append(commands, release.ExpandTokens(cmdLine, asset.Name, values))
	}
	return postrun.Run(commands, destDir)
}

func (r Request) workDir() string {
	if r.WorkDir == "" {
		return "."
	}
	return r.WorkDir
}
