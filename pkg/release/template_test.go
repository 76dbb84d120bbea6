package release

import (
	"errors"
	"strings"
	"testing"
)

func TestExpandSubstitutesEveryPlaceholderOrder(t *testing.T) {
	values := Values{Version: "1.2.3", System: "linux", Arch: "x86_64"}
	cases := []struct {
		template string
		want     string
	}{
		{template: "foo-{version}-{system}-{arch}.zip", want: "foo-1.2.3-linux-x86_64.zip"},
		{template: "foo-{arch}-{system}-{version}.zip", want: "foo-x86_64-linux-1.2.3.zip"},
		{template: "{system}/{arch}/foo", want: "linux/x86_64/foo"},
		{template: "foo-{version}.tar.gz", want: "foo-1.2.3.tar.gz"},
		{template: "foo.zip", want: "foo.zip"},
		{template: "{version}{version}", want: "1.2.31.2.3"},
	}
	for _, tc := range cases {
		tmpl, err := ParseTemplate(tc.template)
		if err != nil {
			t.Fatalf("ParseTemplate(%q) failed: %v", tc.template, err)
		}
		if got := tmpl.Expand(values); got != tc.want {
			t.Fatalf("Expand(%q) = %q, want %q", tc.template, got, tc.want)
		}
	}
}

func TestExpandDoesNotRescanSubstitutedValues(t *testing.T) {
	tmpl, err := ParseTemplate("foo-{version}.zip")
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	got := tmpl.Expand(Values{Version: "{system}"})
	if got != "foo-{system}.zip" {
		t.Fatalf("Expand rescanned substituted value: %q", got)
	}
}

func TestParseTemplateRejectsUnknownPlaceholder(t *testing.T) {
	_, err := ParseTemplate("foo-{platform}.zip")
	if err == nil {
		t.Fatalf("expected unknown placeholder error")
	}
	if !strings.Contains(err.Error(), "{platform}") {
		t.Fatalf("error does not name the placeholder: %v", err)
	}
}

func TestParseTemplateRejectsUnclosedBrace(t *testing.T) {
	if _, err := ParseTemplate("foo-{version.zip"); err == nil {
		t.Fatalf("expected unclosed placeholder error")
	}
}

func TestParseTemplateRejectsEmpty(t *testing.T) {
	if _, err := ParseTemplate(""); err == nil {
		t.Fatalf("expected empty template error")
	}
}

func TestParseTemplateKeepsBareClosingBraceLiteral(t *testing.T) {
	tmpl, err := ParseTemplate("foo-}-{version}.zip")
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	if got := tmpl.Expand(Values{Version: "1.0.0"}); got != "foo-}-1.0.0.zip" {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func TestMatchSelectsUniqueAsset(t *testing.T) {
	tmpl, err := ParseTemplate("widget-{version}-{system}-{arch}.zip")
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	assets := []Asset{
		{Name: "widget-2.3.0-linux-x64.zip", DownloadURL: "https://example.com/a"},
		{Name: "widget-2.3.0-macos-x64.zip", DownloadURL: "https://example.com/b"},
	}
	got, err := tmpl.Match(assets, Values{Version: "2.3.0", System: "linux", Arch: "x64"})
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if got.Name != "widget-2.3.0-linux-x64.zip" {
		t.Fatalf("matched %q, want widget-2.3.0-linux-x64.zip", got.Name)
	}
}

func TestMatchLiteralTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("tool.zip")
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	assets := []Asset{{Name: "tool.zip"}, {Name: "tool.sha256"}}
	got, err := tmpl.Match(assets, Values{})
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if got.Name != "tool.zip" {
		t.Fatalf("matched %q, want tool.zip", got.Name)
	}
}

func TestMatchReportsNoMatchWithDiagnostics(t *testing.T) {
	tmpl, err := ParseTemplate("widget-{version}-{system}-{arch}.zip")
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	assets := []Asset{
		{Name: "widget-2.3.0-macos-x64.zip"},
		{Name: "widget-2.3.0-macos-arm64.zip"},
	}
	_, err = tmpl.Match(assets, Values{Version: "2.3.0", System: "linux", Arch: "x64"})
	var noMatch *NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %T: %v", err, err)
	}
	if noMatch.Expected != "widget-2.3.0-linux-x64.zip" {
		t.Fatalf("unexpected expected name: %q", noMatch.Expected)
	}
	if len(noMatch.Available) != 2 {
		t.Fatalf("expected both available names, got %v", noMatch.Available)
	}
}

func TestMatchReportsDuplicateNamesAsAmbiguous(t *testing.T) {
	tmpl, err := ParseTemplate("tool.zip")
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	assets := []Asset{{Name: "tool.zip"}, {Name: "tool.zip"}}
	_, err = tmpl.Match(assets, Values{})
	var ambiguous *AmbiguousMatchError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousMatchError, got %T: %v", err, err)
	}
	if ambiguous.Count != 2 {
		t.Fatalf("expected count=2, got %d", ambiguous.Count)
	}
}

func TestExpandTokensLeavesOtherBracesAlone(t *testing.T) {
	values := Values{Version: "1.0.0", System: "linux", Arch: "x86_64"}
	got := ExpandTokens(`chmod +x {asset} && echo ${HOME} {unknown} {version}`, "tool.zip", values)
	want := `chmod +x tool.zip && echo ${HOME} {unknown} 1.0.0`
	if got != want {
		t.Fatalf("ExpandTokens = %q, want %q", got, want)
	}
}
