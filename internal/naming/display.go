package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with base-1024 units and one decimal.
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range sizeUnits {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f PB", size)
}

const (
	iconFolder  = "📁"
	iconDefault = "📄"
)

var extIcons = map[string]string{
	".txt": "📄", ".md": "📝", ".log": "📋",
	".py": "🐍", ".js": "📜", ".html": "🌐", ".css": "🎨",
	".json": "📊", ".xml": "📰", ".yaml": "⚙️", ".yml": "⚙️",
	".jpg": "🖼️", ".jpeg": "🖼️", ".png": "🖼️", ".gif": "🖼️", ".svg": "🖼️",
	".mp3": "🎵", ".wav": "🎵", ".flac": "🎵",
	".mp4": "🎬", ".avi": "🎬", ".mkv": "🎬", ".mov": "🎬",
	".zip": "📦", ".tar": "📦", ".gz": "📦", ".rar": "📦", ".7z": "📦",
	".pdf": "📕", ".doc": "📘", ".docx": "📘", ".xls": "📗", ".xlsx": "📗",
	".exe": "⚡", ".sh": "🔧", ".bat": "🔧",
}

// Icon classifies an entry for display.
func Icon(name string, isDir bool) string {
	if isDir {
		return iconFolder
	}
	if icon, ok := extIcons[strings.ToLower(filepath.Ext(name))]; ok {
		return icon
	}
	return iconDefault
}
