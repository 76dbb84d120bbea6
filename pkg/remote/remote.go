package remote

import (
	"fmt"
	"net/url"
	"strings"
)

// Ref identifies one repository on a release host.
type Ref struct {
	Host  string
	Owner string
	Repo  string
}

// Overrides carries explicitly supplied repository coordinates. Empty fields
// fall back to parsed or detected values.
type Overrides struct {
	Host  string
	Owner string
	Repo  string
}

// LookupFunc reads the repository URL of the working directory's VCS remote.
type LookupFunc func() (string, error)

// ParseError reports a repository URL that does not name a host, owner and
// repo.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse repository url %q: %s", e.URL, e.Reason)
}

// ResolutionError reports repository coordinates still empty after every
// resolution strategy ran.
type ResolutionError struct {
	Missing []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("repository not resolved, missing: %s", strings.Join(e.Missing, ", "))
}

// ParseURL extracts host, owner and repo from a repository URL. Accepted
// forms are https://HOST/OWNER/REPO, ssh://git@HOST/OWNER/REPO and the
// scp-like git@HOST:OWNER/REPO. A trailing .git on the repo is stripped.
func ParseURL(raw string) (Ref, error) {
	normalized := strings.TrimSpace(raw)
	if !strings.Contains(normalized, "://") {
		// Rewrite the scp-like form into a real ssh URL.
		normalized = "ssh://" + strings.Replace(normalized, ":", "/", 1)
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return Ref{}, &ParseError{URL: raw, Reason: err.Error()}
	}
	if parsed.Hostname() == "" {
		return Ref{}, &ParseError{URL: raw, Reason: "no hostname"}
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Ref{}, &ParseError{URL: raw, Reason: "path does not name an owner and a repo"}
	}
	return Ref{
		Host:  parsed.Hostname(),
		Owner: segments[0],
		Repo:  strings.TrimSuffix(segments[1], ".git"),
	}, nil
}

// Resolve produces the repository coordinates for a run. Strategies run in
// order until one yields a Ref: the explicit host/owner/repo triple, then an
// explicit URL, then the VCS remote. Explicit fields override the matching
// parsed field, and coordinates still empty afterwards are a
// ResolutionError.
func Resolve(overrides Overrides, explicitURL string, lookup LookupFunc) (Ref, error) {
	strategies := []func() (Ref, bool, error){
		func() (Ref, bool, error) { return fromOverrides(overrides) },
		func() (Ref, bool, error) { return fromURL(explicitURL) },
		func() (Ref, bool, error) { return fromLookup(lookup) },
	}

	for _, strategy := range strategies {
		ref, ok, err := strategy()
		if err != nil {
			return Ref{}, err
		}
		if !ok {
			continue
		}
		ref = overrides.apply(ref)
		if missing := missingFields(ref); len(missing) > 0 {
			return Ref{}, &ResolutionError{Missing: missing}
		}
		return ref, nil
	}

	ref := Ref{Host: overrides.Host, Owner: overrides.Owner, Repo: overrides.Repo}
	return Ref{}, &ResolutionError{Missing: missingFields(ref)}
}

func fromOverrides(overrides Overrides) (Ref, bool, error) {
	if overrides.Host == "" || overrides.Owner == "" || overrides.Repo == "" {
		return Ref{}, false, nil
	}
	return Ref{Host: overrides.Host, Owner: overrides.Owner, Repo: overrides.Repo}, true, nil
}

func fromURL(explicitURL string) (Ref, bool, error) {
	if explicitURL == "" {
		return Ref{}, false, nil
	}
	ref, err := ParseURL(explicitURL)
	if err != nil {
		return Ref{}, false, err
	}
	return ref, true, nil
}

func fromLookup(lookup LookupFunc) (Ref, bool, error) {
	if lookup == nil {
		return Ref{}, false, nil
	}
	remoteURL, err := lookup()
	if err != nil {
		return Ref{}, false, fmt.Errorf("read vcs remote: %w", err)
	}
	ref, err := ParseURL(remoteURL)
	if err != nil {
		return Ref{}, false, err
	}
	return ref, true, nil
}

func (o Overrides) apply(ref Ref) Ref {
	if o.Host != "" {
		ref.Host = o.Host
	}
	if o.Owner != "" {
		ref.Owner = o.Owner
	}
	if o.Repo != "" {
		ref.Repo = o.Repo
	}
	return ref
}

func missingFields(ref Ref) []string {
	var missing []string
	if ref.Host == "" {
		missing = append(missing, "hostname")
	}
	if ref.Owner == "" {
		missing = append(missing, "owner")
	}
	if ref.Repo == "" {
		missing = append(missing, "repo")
	}
	return missing
}
