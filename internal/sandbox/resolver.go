package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Resolver confines user-supplied relative paths to a single storage root.
type Resolver struct {
	rootAbs string
}

// NewResolver returns a Resolver for root. The root must exist; symbolic
// components in it are followed once so that containment checks compare
// canonical paths.
func NewResolver(root string) (*Resolver, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("sandbox root is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root %s: %w", abs, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root %s is not a directory", canonical)
	}
	return &Resolver{rootAbs: filepath.Clean(canonical)}, nil
}

func (r *Resolver) Root() string { return r.rootAbs }

// Resolve maps token onto an absolute path inside the root. It never fails:
// an empty token, a path that escapes the root, or one that cannot be
// canonicalised all resolve to the root itself. The target does not need to
// exist.
func (r *Resolver) Resolve(token string) string {
	if token == "" {
		return r.rootAbs
	}

	normalized := strings.ReplaceAll(token, `\`, "/")
	normalized = strings.TrimLeft(normalized, "/")
	if normalized == "" {
		return r.rootAbs
	}

	joined := filepath.Join(r.rootAbs, filepath.FromSlash(normalized))
	canonical, err := canonicalize(joined)
	if err != nil {
		return r.rootAbs
	}
	if !r.Contains(canonical) {
		return r.rootAbs
	}
	return canonical
}

// Contains reports whether abs is the root or one of its descendants.
func (r *Resolver) Contains(abs string) bool {
	root, path := r.rootAbs, filepath.Clean(abs)
	if runtime.GOOS == "windows" {
		root = strings.ToLower(root)
		path = strings.ToLower(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// IsRoot reports whether abs names the root directory itself.
func (r *Resolver) IsRoot(abs string) bool {
	return r.Contains(abs) && r.Rel(abs) == ""
}

// Rel returns abs relative to the root in slash form, "" for the root and
// for paths outside it.
func (r *Resolver) Rel(abs string) string {
	if !r.Contains(abs) {
		return ""
	}
	rel, err := filepath.Rel(r.rootAbs, filepath.Clean(abs))
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

var errDanglingLink = errors.New("path continues below a dangling symlink")

// canonicalize follows symbolic links in the longest existing prefix of p
// and re-appends the components that do not exist yet. A dangling link is
// never followed: it may only be the last component, so the link itself can
// still be removed, and anything addressed below it is an error.
func canonicalize(p string) (string, error) {
	var missing []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		if len(missing) > 0 {
			if info, lerr := os.Lstat(cur); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
				return "", errDanglingLink
			}
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}
		missing = append(missing, filepath.Base(cur))
		cur = parent
	}
}
