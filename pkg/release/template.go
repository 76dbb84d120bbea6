package release

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder names allowed in an asset template.
const (
	PlaceholderVersion = "version"
	PlaceholderSystem  = "system"
	PlaceholderArch    = "arch"
)

// Values carries the concrete strings substituted into a Template.
type Values struct {
	Version string
	System  string
	Arch    string
}

// Template is a literal asset file name with optional {version}, {system}
// and {arch} placeholders. A template without placeholders matches one
// exact asset name.
type Template struct {
	raw      string
	segments []segment
}

// A segment is either literal text or one placeholder occurrence.
type segment struct {
	literal     string
	placeholder string
}

// NoMatchError reports that no release asset carried the expected name.
type NoMatchError struct {
	Expected  string
	Available []string
}

func (e *NoMatchError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no asset named %q: release has no assets", e.Expected)
	}
	return fmt.Sprintf("no asset named %q, available: %s", e.Expected, strings.Join(e.Available, ", "))
}

// AmbiguousMatchError reports a release listing the expected name more than
// once.
type AmbiguousMatchError struct {
	Name  string
	Count int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("release lists %d assets named %q, cannot pick one", e.Count, e.Name)
}

// ParseTemplate validates raw and splits it into literal and placeholder
// segments. Unknown placeholder names and unclosed braces are configuration
// errors, raised before any network call. A bare } is literal text.
func ParseTemplate(raw string) (*Template, error) {
	if raw == "" {
		return nil, errors.New("asset template is empty")
	}
	var segments []segment
	rest := raw
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if rest != "" {
				segments = append(segments, segment{literal: rest})
			}
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("unclosed placeholder in template %q", raw)
		}
		name := rest[open+1 : open+closing]
		switch name {
		case PlaceholderVersion, PlaceholderSystem, PlaceholderArch:
		default:
			return nil, fmt.Errorf("unknown placeholder {%s} in template %q", name, raw)
		}
		if open > 0 {
			segments = append(segments, segment{literal: rest[:open]})
		}
		segments = append(segments, segment{placeholder: name})
		rest = rest[open+closing+1:]
	}
	return &Template{raw: raw, segments: segments}, nil
}

// String returns the raw template text.
func (t *Template) String() string {
	return t.raw
}

// Expand substitutes every placeholder occurrence exactly once, left to
// right. Substituted values are never rescanned for further placeholders.
func (t *Template) Expand(values Values) string {
	var b strings.Builder
	for _, seg := range t.segments {
		switch seg.placeholder {
		case PlaceholderVersion:
			b.WriteString(values.Version)
		case PlaceholderSystem:
			b.WriteString(values.System)
		case PlaceholderArch:
			b.WriteString(values.Arch)
		default:
			b.WriteString(seg.literal)
		}
	}
	return b.String()
}

// Match expands the template with values and selects the one asset whose
// name equals the result exactly. Zero matches and duplicate matches are
// both hard errors so a misconfigured template can never pick a wrong
// binary silently.
func (t *Template) Match(assets []Asset, values Values) (Asset, error) {
	expected := t.Expand(values)
	var matched []Asset
	for _, asset := range assets {
		if asset.Name == expected {
			matched = append(matched, asset)
		}
	}
	switch len(matched) {
	case 0:
		names := make([]string, 0, len(assets))
		for _, asset := range assets {
			names = append(names, asset.Name)
		}
		return Asset{}, &NoMatchError{Expected: expected, Available: names}
	case 1:
		return matched[0], nil
	default:
		return Asset{}, &AmbiguousMatchError{Name: expected, Count: len(matched)}
	}
}

// ExpandTokens replaces the {asset}, {version}, {system} and {arch} tokens
// in s with the run's concrete values, leaving all other text untouched.
// Post-download commands and extract lists use this, so shell constructs
// like ${VAR} survive.
func ExpandTokens(s, assetName string, values Values) string {
	replacer := strings.NewReplacer(
		"{asset}", assetName,
		"{version}", values.Version,
		"{system}", values.System,
		"{arch}", values.Arch,
	)
	return replacer.Replace(s)
}
