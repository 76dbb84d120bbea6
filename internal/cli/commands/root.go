package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IamTheFij/release-gitter/internal/cli/archive"
	"github.com/IamTheFij/release-gitter/internal/cli/config"
	"github.com/IamTheFij/release-gitter/internal/cli/fetch"
	"github.com/IamTheFij/release-gitter/internal/cli/postrun"
	"github.com/IamTheFij/release-gitter/internal/cli/shared"
	"github.com/IamTheFij/release-gitter/pkg/manifest"
	"github.com/IamTheFij/release-gitter/pkg/release"
	"github.com/IamTheFij/release-gitter/pkg/remote"
)

type appContext struct {
	configPath string
	verbosity  int

	hostname          string
	owner             string
	repo              string
	gitURL            string
	version           string
	prerelease        bool
	versionGitTag     bool
	versionGitNoFetch bool
	mapSystem         map[string]string
	mapArch           map[string]string
	exec              []string
	extractFiles      []string
	extractAll        bool
	checksum          string
	urlOnly           bool
	useTempDir        bool
}

func NewRootCmd(version string) *cobra.Command {
	ctx := &appContext{}
	cmd := &cobra.Command{
		Use:   "release-gitter FORMAT [DEST]",
		Short: "Download a release asset from a GitHub or Gitea style repository",
		Long: "release-gitter finds the release asset whose name matches a template\n" +
			"like `tool-{version}-{system}-{arch}.tar.gz`, downloads it and optionally\n" +
			"extracts files or runs follow-up commands. Repository coordinates and the\n" +
			"version are detected from the working directory unless given explicitly.",
		Args: cobra.MaximumNArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetLogLoggerLevel(logLevel(ctx.verbosity))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.run(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&ctx.configPath, "config", "", "path or URL of a config file, defaults to "+config.DefaultFileName)
	cmd.PersistentFlags().CountVarP(&ctx.verbosity, "verbose", "v", "verbose or debug logging")

	cmd.Flags().StringVar(&ctx.hostname, "hostname", "", "git repository hostname")
	cmd.Flags().StringVar(&ctx.owner, "owner", "", "owner of the repo, detected from the git url when omitted")
	cmd.Flags().StringVar(&ctx.repo, "repo", "", "repo name, detected from the git url when omitted")
	cmd.Flags().StringVar(&ctx.gitURL, "git-url", "", "git repository URL, overrides git remote detection but not --hostname, --owner or --repo")
	cmd.Flags().StringVarP(&ctx.version, "version", "V", "", "release version to download, or `latest`; detected from project metadata when omitted")
	cmd.Flags().BoolVar(&ctx.prerelease, "prerelease", false, "include pre-releases when picking the latest version")
	cmd.Flags().BoolVarP(&ctx.versionGitTag, "version-git-tag", "t", false, "read the release version from the latest git tag")
	cmd.Flags().BoolVar(&ctx.versionGitNoFetch, "version-git-no-fetch", false, "do not fetch tags before reading the git tag")
	cmd.Flags().StringToStringVarP(&ctx.mapSystem, "map-system", "s", nil, "map a detected operating system to an asset label, eg darwin=macos")
	cmd.Flags().StringToStringVarP(&ctx.mapArch, "map-arch", "a", nil, "map a detected architecture to an asset label, eg amd64=x64")
	cmd.Flags().StringArrayVarP(&ctx.exec, "exec", "c", nil, "shell command to run after download or extraction, {asset} expands to the asset name")
	cmd.Flags().StringArrayVarP(&ctx.extractFiles, "extract-files", "e", nil, "file to extract from the downloaded archive")
	cmd.Flags().BoolVarP(&ctx.extractAll, "extract-all", "x", false, "extract all files from the downloaded archive")
	cmd.Flags().StringVar(&ctx.checksum, "checksum", "", "verify the download against an algorithm:hexdigest pair")
	cmd.Flags().BoolVar(&ctx.urlOnly, "url-only", false, "only print the asset URL, do not download")
	cmd.Flags().BoolVar(&ctx.useTempDir, "use-temp-dir", false, "download into a fresh temporary directory")

	cmd.AddCommand(newVersionCmd(version))
	cmd.AddCommand(newInitCmd())

	return cmd
}

func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return mapExitCode(err)
	}
	return shared.ExitOK
}

func (ctx *appContext) run(cmd *cobra.Command, args []string) error {
	cfg, err := ctx.loadConfig()
	if err != nil {
		return newExitCodeError(shared.ExitConfigError, err)
	}

	req, err := ctx.buildRequest(cmd, args, cfg)
	if err != nil {
		return err
	}

	result, err := req.Run()
	if err != nil {
		return err
	}

	if req.URLOnly {
		fmt.Fprintln(cmd.OutOrStdout(), result.URL)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s\n", strings.Join(result.Files, ", "))
	return nil
}

func (ctx *appContext) loadConfig() (*config.Config, error) {
	if ctx.configPath != "" {
		return config.Load(ctx.configPath)
	}
	return config.LoadDefault()
}

// buildRequest merges positional arguments, flags and the config file into
// one fetch request. An explicitly set flag always beats the config file.
func (ctx *appContext) buildRequest(cmd *cobra.Command, args []string, cfg *config.Config) (fetch.Request, error) {
	flags := cmd.Flags()
	pickString := func(name, flagValue, cfgValue string) string {
		if flags.Changed(name) || cfgValue == "" {
			return flagValue
		}
		return cfgValue
	}
	pickBool := func(name string, flagValue, cfgValue bool) bool {
		if flags.Changed(name) {
			return flagValue
		}
		return cfgValue
	}

	format := cfg.Format
	if len(args) > 0 {
		format = args[0]
	}
	if format == "" {
		return fetch.Request{}, newExitCodeError(shared.ExitConfigError,
			errors.New("an asset name format is required, pass FORMAT or set format in the config file"))
	}

	dest := cfg.Dest
	if len(args) > 1 {
		dest = args[1]
	}
	if pickBool("use-temp-dir", ctx.useTempDir, cfg.UseTempDir) {
		if dest != "" {
			return fetch.Request{}, newExitCodeError(shared.ExitConfigError,
				errors.New("cannot combine a destination directory with --use-temp-dir"))
		}
		tempDir, err := os.MkdirTemp("", "release-gitter-")
		if err != nil {
			return fetch.Request{}, err
		}
		dest = tempDir
	}

	mapSystem := ctx.mapSystem
	if !flags.Changed("map-system") && len(cfg.MapSystem) > 0 {
		mapSystem = cfg.MapSystem
	}
	mapArch := ctx.mapArch
	if !flags.Changed("map-arch") && len(cfg.MapArch) > 0 {
		mapArch = cfg.MapArch
	}
	execCommands := ctx.exec
	if !flags.Changed("exec") && len(cfg.Exec) > 0 {
		execCommands = cfg.Exec
	}
	extractFiles := ctx.extractFiles
	if !flags.Changed("extract-files") && len(cfg.ExtractFiles) > 0 {
		extractFiles = cfg.ExtractFiles
	}

	return fetch.Request{
		Format:            format,
		DestDir:           dest,
		Hostname:          pickString("hostname", ctx.hostname, cfg.Hostname),
		Owner:             pickString("owner", ctx.owner, cfg.Owner),
		Repo:              pickString("repo", ctx.repo, cfg.Repo),
		GitURL:            pickString("git-url", ctx.gitURL, cfg.GitURL),
		Version:           pickString("version", ctx.version, cfg.Version),
		Prerelease:        pickBool("prerelease", ctx.prerelease, cfg.Prerelease),
		VersionGitTag:     pickBool("version-git-tag", ctx.versionGitTag, cfg.VersionGitTag),
		VersionGitNoFetch: pickBool("version-git-no-fetch", ctx.versionGitNoFetch, cfg.VersionGitNoFetch),
		MapSystem:         mapSystem,
		MapArch:           mapArch,
		Exec:              execCommands,
		ExtractFiles:      extractFiles,
		ExtractAll:        pickBool("extract-all", ctx.extractAll, cfg.ExtractAll),
		Checksum:          pickString("checksum", ctx.checksum, cfg.Checksum),
		URLOnly:           pickBool("url-only", ctx.urlOnly, cfg.URLOnly),
	}, nil
}

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func mapExitCode(err error) int {
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	var cfgErr *fetch.ConfigError
	if errors.As(err, &cfgErr) {
		return shared.ExitConfigError
	}
	var parseErr *remote.ParseError
	var resolutionErr *remote.ResolutionError
	if errors.As(err, &parseErr) || errors.As(err, &resolutionErr) {
		return shared.ExitResolveError
	}
	var manifestErr *manifest.FormatError
	if errors.As(err, &manifestErr) || errors.Is(err, manifest.ErrNoManifest) {
		return shared.ExitVersionError
	}
	var notFoundErr *fetch.NotFoundError
	var statusErr *fetch.StatusError
	var hostErr *fetch.UnsupportedHostError
	if errors.As(err, &notFoundErr) || errors.As(err, &statusErr) || errors.As(err, &hostErr) ||
		errors.Is(err, fetch.ErrChecksumMismatch) {
		return shared.ExitReleaseError
	}
	var noMatchErr *release.NoMatchError
	var ambiguousErr *release.AmbiguousMatchError
	if errors.As(err, &noMatchErr) || errors.As(err, &ambiguousErr) {
		return shared.ExitMatchError
	}
	var archiveErr *archive.UnsupportedArchiveError
	var membersErr *archive.MissingMembersError
	if errors.As(err, &archiveErr) || errors.As(err, &membersErr) {
		return shared.ExitExtractError
	}
	var commandErr *postrun.CommandError
	if errors.As(err, &commandErr) {
		if commandErr.ExitCode > 0 {
			return commandErr.ExitCode
		}
		return shared.ExitExecError
	}
	return 1
}

type exitCodeError struct {
	code int
	err  error
}

func newExitCodeError(code int, err error) *exitCodeError {
	return &exitCodeError{code: code, err: err}
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}
