package server

import (
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	browsePrefix    = "/browse/"
	downloadPrefix  = "/download/"
	uploadPrefix    = "/upload/"
	newFolderPrefix = "/new_folder/"
	deletePrefix    = "/delete/"
)

type breadcrumb struct {
	Label string
	Href  string
}

// pathToken is the raw relative path captured by a "*path" route.
func pathToken(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}

func buildHref(prefix, relative string) string {
	clean := strings.Trim(relative, "/")
	if clean == "" {
		return prefix
	}

	parts := strings.Split(clean, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}

	return prefix + strings.Join(parts, "/")
}

func browseHref(relative string) string   { return buildHref(browsePrefix, relative) }
func downloadHref(relative string) string { return buildHref(downloadPrefix, relative) }

// parentOf returns the parent of a slash-separated relative path, "" for
// top-level entries.
func parentOf(relative string) string {
	parent := path.Dir(relative)
	if parent == "." || parent == "/" {
		return ""
	}
	return parent
}

func buildBreadcrumbs(rootLabel, relative string) []breadcrumb {
	crumbs := []breadcrumb{{Label: rootLabel, Href: browseHref("")}}
	if relative == "" {
		return crumbs
	}

	current := ""
	for _, part := range strings.Split(relative, "/") {
		if part == "" {
			continue
		}
		current = path.Join(current, part)
		crumbs = append(crumbs, breadcrumb{Label: part, Href: browseHref(current)})
	}
	return crumbs
}
