package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrNoManifest reports that no registered project manifest exists in the
// searched directory.
var ErrNoManifest = errors.New("no project manifest with a version found")

// FormatError reports a manifest that exists but carries no usable version
// field.
type FormatError struct {
	File   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot read version from %s: %s", e.File, e.Reason)
}

// Parser reads a project version out of one manifest file format.
type Parser struct {
	// File is the manifest file name the parser recognizes.
	File string
	// Parse returns the version recorded in the manifest at path.
	Parse func(path string) (string, error)
}

// Parsers is the registry of manifest formats, consulted in order. New
// formats plug in by appending an entry.
var Parsers = []Parser{
	{File: "Cargo.toml", Parse: parseCargo},
	{File: "pyproject.toml", Parse: parsePyproject},
	{File: "package.json", Parse: parsePackageJSON},
}

// ResolveVersion returns the version recorded by the first registered
// manifest present in dir. The first file found decides: its parse failure
// is an error, not a reason to try the next format. ErrNoManifest is
// returned when no registered file exists.
func ResolveVersion(dir string) (string, error) {
	for _, parser := range Parsers {
		path := filepath.Join(dir, parser.File)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		return parser.Parse(path)
	}
	return "", ErrNoManifest
}

func parseCargo(path string) (string, error) {
	var doc struct {
		Package struct {
			Version any `toml:"version"`
		} `toml:"package"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return "", &FormatError{File: filepath.Base(path), Reason: err.Error()}
	}
	return versionString(filepath.Base(path), doc.Package.Version)
}

func parsePyproject(path string) (string, error) {
	var doc struct {
		Project struct {
			Version any `toml:"version"`
		} `toml:"project"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return "", &FormatError{File: filepath.Base(path), Reason: err.Error()}
	}
	return versionString(filepath.Base(path), doc.Project.Version)
}

func parsePackageJSON(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var doc struct {
		Version any `json:"version"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return "", &FormatError{File: filepath.Base(path), Reason: err.Error()}
	}
	return versionString(filepath.Base(path), doc.Version)
}

// versionString accepts only a bare non-empty string as a version value.
// Anything else, such as Cargo's version = { workspace = true }, is a
// FormatError.
func versionString(file string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", &FormatError{File: file, Reason: "no version field"}
	case string:
		if v == "" {
			return "", &FormatError{File: file, Reason: "version field is empty"}
		}
		return v, nil
	default:
		return "", &FormatError{File: file, Reason: fmt.Sprintf("version field is %T, not a string", value)}
	}
}
