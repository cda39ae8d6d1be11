package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// uploadTempPrefix names in-flight upload files. Listings skip them.
const uploadTempPrefix = ".upload-"

type fileEntry struct {
	Name         string
	RelativePath string
	ModTime      time.Time
	Size         int64
	IsDir        bool
}

// listEntries returns the immediate children of absDir, directories first
// and then by case-insensitive name. When reading the directory fails part
// way, the entries gathered so far are returned together with the error.
func (s *Server) listEntries(absDir string) ([]fileEntry, error) {
	dirEntries, readErr := os.ReadDir(absDir)

	entries := make([]fileEntry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if isUploadTemp(entry.Name()) {
			continue
		}
		absPath := filepath.Join(absDir, entry.Name())

		// Stat follows symlinks so a link to a directory lists as one.
		info, err := os.Stat(absPath)
		if err != nil {
			info, err = entry.Info()
			if err != nil {
				continue
			}
		}

		fe := fileEntry{
			Name:         entry.Name(),
			RelativePath: s.resolver.Rel(absPath),
			ModTime:      info.ModTime(),
			IsDir:        info.IsDir(),
		}
		if !fe.IsDir {
			fe.Size = info.Size()
		}
		entries = append(entries, fe)
	}

	sortEntries(entries)
	return entries, readErr
}

func isUploadTemp(name string) bool {
	return strings.HasPrefix(name, uploadTempPrefix) && strings.HasSuffix(name, ".tmp")
}

func sortEntries(entries []fileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}

		left := strings.ToLower(entries[i].Name)
		right := strings.ToLower(entries[j].Name)

		return left < right
	})
}

// writeFile stores src as dir/name. The data goes to a temporary file that
// is renamed over the destination, so an existing file is replaced and a
// symlink at the destination is replaced rather than followed.
func writeFile(dir, name string, src io.Reader) (int64, error) {
	dst := filepath.Join(dir, name)
	if filepath.Dir(dst) != filepath.Clean(dir) {
		return 0, errOutsideDir
	}

	tmp, err := os.CreateTemp(dir, uploadTempPrefix+"*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, src)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close temp for %s: %w", name, err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("rename temp to %s: %w", name, err)
	}
	return n, nil
}

func saveMultipartFile(dir, name string, fh *multipart.FileHeader) (int64, error) {
	src, err := fh.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	return writeFile(dir, name, src)
}

// makeFolder creates parent/name, including any missing parents. It refuses
// when anything already exists at that path.
func makeFolder(parent, name string) (string, error) {
	dir := filepath.Join(parent, name)
	if filepath.Dir(dir) != filepath.Clean(parent) {
		return "", errOutsideDir
	}

	if _, err := os.Lstat(dir); err == nil {
		return "", errExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// removePath deletes a file, or a directory with everything below it.
func removePath(target string) error {
	info, err := os.Lstat(target)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return removeTree(target)
	}
	return os.Remove(target)
}

// removeTree deletes dir depth-first using an explicit stack. Symlinks are
// removed, never followed.
func removeTree(dir string) error {
	stack := []string{dir}
	var visited []string

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited = append(visited, current)

		children, err := os.ReadDir(current)
		if err != nil {
			return err
		}
		for _, child := range children {
			childPath := filepath.Join(current, child.Name())
			if child.IsDir() {
				stack = append(stack, childPath)
				continue
			}
			if err := os.Remove(childPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
	}

	// Every directory is visited after its parent, so the reverse order
	// removes children first.
	for i := len(visited) - 1; i >= 0; i-- {
		if err := os.Remove(visited[i]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
