package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/pkg/digest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "card.yaml")
	if err := os.WriteFile(path, []byte(cardFixture), 0644); err != nil {
		t.Fatal(err)
	}
	if err := config.New().SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func TestDigestCommand(t *testing.T) {
	out, err := run(t, "digest", "<p>", "</p>")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if want := digest.Compute([]string{"<p>", "</p>"}); strings.TrimSpace(out) != want {
		t.Errorf("digest = %q, want %q", out, want)
	}

	_, path := writeFixture(t)
	out, err = run(t, "digest", "--fixture", path, "--template", "item")
	if err != nil {
		t.Fatalf("digest --fixture: %v", err)
	}
	if want := digest.Compute([]string{"<li>", "</li>"}); strings.TrimSpace(out) != want {
		t.Errorf("digest = %q, want %q", out, want)
	}

	if _, err := run(t, "digest"); err == nil {
		t.Error("digest with no strings: expected error")
	}
}

func TestRenderAndCheckCommands(t *testing.T) {
	dir, path := writeFixture(t)

	markup, err := run(t, "render", "-c", dir, path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(markup, "<li>") || !strings.Contains(markup, "<!--/vg-part-->") {
		t.Fatalf("render output = %s", markup)
	}

	htmlPath := filepath.Join(dir, "card.html")
	if err := os.WriteFile(htmlPath, []byte(markup), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "check", "-c", dir, path, "--markup", htmlPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "frame: template-instance") {
		t.Errorf("check output = %s", out)
	}

	// A markup file for a different value fails the check.
	if err := os.WriteFile(htmlPath, []byte("<p>static</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "check", "-c", dir, path, "--markup", htmlPath, "--json")
	if err == nil {
		t.Fatalf("check of foreign markup: expected error\n%s", out)
	}
	if !strings.Contains(out, `"code": "E012"`) {
		t.Errorf("check output = %s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}

	out, err = run(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	var b buildInfo
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if b.Version != version || b.Markers.Open != "vg-part" {
		t.Errorf("build = %+v", b)
	}
}
