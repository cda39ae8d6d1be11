package sandbox

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "root")
	if err := os.MkdirAll(filepath.Join(root, "a", "b"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	r, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver(): %v", err)
	}
	return r, base
}

func TestResolver_EmptyTokenIsRoot(t *testing.T) {
	r, _ := newTestResolver(t)
	if got := r.Resolve(""); got != r.Root() {
		t.Fatalf("got %q want root %q", got, r.Root())
	}
}

func TestResolver_AllowsInsideRoot(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve("a/b/c.txt")
	want := filepath.Join(r.Root(), "a", "b", "c.txt")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolver_NonexistentPathStaysInside(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve("missing/deeper/file")
	want := filepath.Join(r.Root(), "missing", "deeper", "file")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolver_NeverEscapes(t *testing.T) {
	r, _ := newTestResolver(t)

	tokens := []string{
		"..",
		"../",
		"../outside",
		"../../../../etc/passwd",
		"a/../../outside",
		"a/b/../../..",
		"/etc/passwd",
		"//etc/passwd",
		`\..\..\windows`,
		`a\..\..\outside`,
		"a/./../..//../x",
		"./../root-sibling",
		"a/b/../../../root/../../x",
		"....//....//",
		"a\x00b",
	}
	for _, tok := range tokens {
		got := r.Resolve(tok)
		if !r.Contains(got) {
			t.Fatalf("Resolve(%q) = %q escapes root %q", tok, got, r.Root())
		}
	}
}

func TestResolver_TraversalFallsBackToRoot(t *testing.T) {
	r, _ := newTestResolver(t)
	for _, tok := range []string{"../outside", "a/../../outside", `..\..\x`} {
		if got := r.Resolve(tok); got != r.Root() {
			t.Fatalf("Resolve(%q) = %q, want root", tok, got)
		}
	}
}

func TestResolver_AbsoluteSyntaxIsRelative(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve("/a/b")
	want := filepath.Join(r.Root(), "a", "b")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolver_MixedSeparators(t *testing.T) {
	r, _ := newTestResolver(t)
	got := r.Resolve(`a\b/c.txt`)
	want := filepath.Join(r.Root(), "a", "b", "c.txt")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolver_SymlinkOutsideRootFallsBack(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	r, base := newTestResolver(t)

	outside := filepath.Join(base, "outside")
	if err := os.MkdirAll(outside, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(r.Root(), "escape")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	for _, tok := range []string{"escape", "escape/secret.txt"} {
		if got := r.Resolve(tok); got != r.Root() {
			t.Fatalf("Resolve(%q) = %q, want root", tok, got)
		}
	}
}

func TestResolver_SymlinkInsideRootIsFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	r, _ := newTestResolver(t)

	if err := os.Symlink(filepath.Join(r.Root(), "a", "b"), filepath.Join(r.Root(), "shortcut")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	got := r.Resolve("shortcut/new.txt")
	want := filepath.Join(r.Root(), "a", "b", "new.txt")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolver_DanglingSymlinkIsNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	r, base := newTestResolver(t)

	link := filepath.Join(r.Root(), "d")
	if err := os.Symlink(filepath.Join(base, "gone"), link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	if got := r.Resolve("d"); got != link {
		t.Fatalf("Resolve(d) = %q, want the link itself %q", got, link)
	}
	for _, token := range []string{"d/x", "d/x/y", "a/../d/x"} {
		if got := r.Resolve(token); got != r.Root() {
			t.Fatalf("Resolve(%q) = %q, want root", token, got)
		}
	}
}

func TestResolver_RootBehindSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	_, base := newTestResolver(t)

	link := filepath.Join(base, "link")
	if err := os.Symlink(filepath.Join(base, "root"), link); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	r, err := NewResolver(link)
	if err != nil {
		t.Fatalf("NewResolver(): %v", err)
	}
	if got := r.Resolve("a"); got != filepath.Join(r.Root(), "a") {
		t.Fatalf("got %q", got)
	}
}

func TestResolver_RelAndIsRoot(t *testing.T) {
	r, _ := newTestResolver(t)

	if rel := r.Rel(r.Resolve("a/b")); rel != "a/b" {
		t.Fatalf("Rel = %q", rel)
	}
	if rel := r.Rel(r.Root()); rel != "" {
		t.Fatalf("Rel(root) = %q", rel)
	}
	if !r.IsRoot(r.Resolve("a/..")) {
		t.Fatalf("a/.. should resolve to root")
	}
	if r.IsRoot(r.Resolve("a")) {
		t.Fatalf("a should not be root")
	}
	if r.Contains(filepath.Dir(r.Root())) {
		t.Fatalf("parent of root must not be contained")
	}
	if r.Contains(r.Root() + "-sibling") {
		t.Fatalf("sibling sharing a name prefix must not be contained")
	}
}

func TestNewResolver_RejectsEmptyAndFile(t *testing.T) {
	if _, err := NewResolver("  "); err == nil {
		t.Fatalf("expected error for empty root")
	}

	file := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewResolver(file); err == nil {
		t.Fatalf("expected error for file root")
	}
}
