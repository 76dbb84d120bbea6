package remote

import (
	"errors"
	"testing"
)

func TestParseURLAcceptedForms(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Ref
	}{
		{name: "https", raw: "https://github.com/owner/repo", want: Ref{Host: "github.com", Owner: "owner", Repo: "repo"}},
		{name: "https with .git", raw: "https://example.com/acme/widget.git", want: Ref{Host: "example.com", Owner: "acme", Repo: "widget"}},
		{name: "scp-like", raw: "git@github.com:owner/repo", want: Ref{Host: "github.com", Owner: "owner", Repo: "repo"}},
		{name: "scp-like with .git", raw: "git@example.com:acme/widget.git", want: Ref{Host: "example.com", Owner: "acme", Repo: "widget"}},
		{name: "ssh", raw: "ssh://git@git.iamthefij.com/owner/repo", want: Ref{Host: "git.iamthefij.com", Owner: "owner", Repo: "repo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseURL(tc.raw)
			if err != nil {
				t.Fatalf("ParseURL(%q) failed: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("ParseURL(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseURLRejectsShortPath(t *testing.T) {
	_, err := ParseURL("https://git@example.com/repo")
	if err == nil {
		t.Fatalf("expected parse error for single path segment")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if parseErr.URL != "https://git@example.com/repo" {
		t.Fatalf("unexpected URL in error: %q", parseErr.URL)
	}
}

func TestResolveUsesExplicitTripleWithoutParsing(t *testing.T) {
	lookupCalled := false
	lookup := func() (string, error) {
		lookupCalled = true
		return "", errors.New("should not be called")
	}

	overrides := Overrides{Host: "example.com", Owner: "acme", Repo: "widget"}
	ref, err := Resolve(overrides, "https://other.com/not/used", lookup)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := Ref{Host: "example.com", Owner: "acme", Repo: "widget"}
	if ref != want {
		t.Fatalf("resolved %+v, want %+v", ref, want)
	}
	if lookupCalled {
		t.Fatalf("vcs lookup ran despite a complete explicit triple")
	}
}

func TestResolveOverridesParsedFields(t *testing.T) {
	overrides := Overrides{Repo: "renamed"}
	ref, err := Resolve(overrides, "https://github.com/owner/repo", nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := Ref{Host: "github.com", Owner: "owner", Repo: "renamed"}
	if ref != want {
		t.Fatalf("resolved %+v, want %+v", ref, want)
	}
}

func TestResolveFallsBackToLookup(t *testing.T) {
	lookup := func() (string, error) { return "git@github.com:owner/repo", nil }
	ref, err := Resolve(Overrides{}, "", lookup)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := Ref{Host: "github.com", Owner: "owner", Repo: "repo"}
	if ref != want {
		t.Fatalf("resolved %+v, want %+v", ref, want)
	}
}

func TestResolveReportsMissingFields(t *testing.T) {
	_, err := Resolve(Overrides{Owner: "acme"}, "", nil)
	if err == nil {
		t.Fatalf("expected resolution error")
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %T: %v", err, err)
	}
	if len(resErr.Missing) != 2 || resErr.Missing[0] != "hostname" || resErr.Missing[1] != "repo" {
		t.Fatalf("unexpected missing fields: %v", resErr.Missing)
	}
}

func TestResolveSurfacesLookupFailure(t *testing.T) {
	lookup := func() (string, error) { return "", errors.New("no origin remote") }
	_, err := Resolve(Overrides{}, "", lookup)
	if err == nil {
		t.Fatalf("expected lookup failure")
	}
}

func TestResolveRejectsMalformedExplicitURL(t *testing.T) {
	_, err := Resolve(Overrides{}, "https://example.com/onlyowner", nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}
