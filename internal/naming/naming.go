// Package naming sanitises user-supplied file names and formats entries
// for display.
package naming

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptyName  = errors.New("name is empty")
	ErrUnsafeName = errors.New("name is not a single safe path component")
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeName reduces name to characters from [A-Za-z0-9_.-]. Path
// separators become word breaks, so "../../evil.sh" yields "evil.sh". The
// result may be empty.
func SanitizeName(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, name)

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		stem := strings.ToUpper(strings.SplitN(name, ".", 2)[0])
		if _, ok := windowsDeviceNames[stem]; ok {
			name = "_" + name
		}
	}
	return name
}

// SafeName returns the sanitised form of raw. When sanitising leaves
// nothing (names written entirely in non-Latin scripts, for example) the
// trimmed raw name is used instead, but only if it is a single path
// component that cannot address another directory.
func SafeName(raw string) (string, error) {
	if clean := SanitizeName(raw); clean != "" {
		return clean, nil
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyName
	}
	if raw == "." || raw == ".." ||
		strings.ContainsAny(raw, `/\:`) ||
		strings.ContainsRune(raw, 0) ||
		filepath.Base(raw) != raw {
		return "", ErrUnsafeName
	}
	return raw, nil
}

// ParseExtensions splits a comma-separated allow-list into lower-cased
// entries, dropping blanks.
func ParseExtensions(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ExtensionAllowed reports whether name passes the allow-list. Entries may
// be written with or without the leading dot. An empty list allows
// everything, and so does a name without an extension.
func ExtensionAllowed(name string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return true
	}
	bare := strings.TrimPrefix(ext, ".")
	for _, a := range allowed {
		if a == ext || a == bare {
			return true
		}
	}
	return false
}
