package server

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filebrowser/internal/flash"
	"filebrowser/internal/i18n"
	"filebrowser/internal/logging"
	"filebrowser/internal/metrics"
	"filebrowser/internal/naming"
)

const (
	langCookie   = "lang"
	langMaxAge   = 365 * 24 * 60 * 60
	modifiedTime = "2006-01-02 15:04"
)

func (s *Server) handleBrowse(c *gin.Context) {
	lang := requestLang(c)
	absolutePath := s.resolver.Resolve(pathToken(c))

	info, err := os.Stat(absolutePath)
	if err != nil {
		if s.resolver.IsRoot(absolutePath) {
			s.respondError(c, errRootMissing)
			return
		}
		s.flashes.Error(c, i18n.T(lang, "flash_dir_not_exist", nil))
		s.redirect(c, browseHref(""))
		return
	}

	relative := s.resolver.Rel(absolutePath)
	if !info.IsDir() {
		s.redirect(c, downloadHref(relative))
		return
	}

	notices := s.flashes.Pop(c)
	entries, err := s.listEntries(absolutePath)
	if err != nil {
		logging.FromContext(c).Warn("listing incomplete", zap.String("dir", relative), zap.Error(err))
		notices = append(notices, flash.Notice{Kind: flash.KindError, Message: i18n.T(lang, "flash_no_permission", nil)})
	}
	metrics.RecordOperation("browse", err == nil)

	catalog := i18n.Catalog(lang)
	data := indexPageData{
		Lang:            lang,
		I18n:            catalog,
		Breadcrumbs:     buildBreadcrumbs(catalog["root_dir"], relative),
		Notices:         notices,
		HasParent:       relative != "",
		ParentHref:      browseHref(parentOf(relative)),
		UploadAction:    buildHref(uploadPrefix, relative),
		NewFolderAction: buildHref(newFolderPrefix, relative),
		Entries:         buildEntryViews(lang, entries),
	}

	c.HTML(http.StatusOK, "index", data)
}

func (s *Server) handleDownload(c *gin.Context) {
	absolutePath := s.resolver.Resolve(pathToken(c))

	info, err := os.Stat(absolutePath)
	if err != nil {
		metrics.RecordOperation("download", false)
		s.respondError(c, errFileNotFound)
		return
	}

	if info.IsDir() {
		s.redirect(c, browseHref(s.resolver.Rel(absolutePath)))
		return
	}

	f, err := os.Open(absolutePath)
	if err != nil {
		metrics.RecordOperation("download", false)
		if errors.Is(err, fs.ErrNotExist) {
			s.respondError(c, errFileNotFound)
			return
		}
		s.respondError(c, err)
		return
	}
	defer f.Close()

	name := info.Name()
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)

	metrics.RecordOperation("download", true)
	metrics.RecordDownload(info.Size())
}

func (s *Server) handleUpload(c *gin.Context) {
	lang := requestLang(c)
	targetDir := s.resolver.Resolve(pathToken(c))
	back := browseHref(s.resolver.Rel(targetDir))

	info, err := os.Stat(targetDir)
	if err != nil || !info.IsDir() {
		s.flashes.Error(c, i18n.T(lang, "flash_target_dir_not_exist", nil))
		s.redirect(c, back)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge,
				i18n.T(lang, "flash_upload_too_large", map[string]string{"size": naming.FormatSize(s.maxUploadSize)}))
			return
		}
		s.flashes.Error(c, i18n.T(lang, "flash_no_file_selected", nil))
		s.redirect(c, back)
		return
	}
	defer form.RemoveAll()

	files := form.File["files"]
	if len(files) == 0 {
		s.flashes.Error(c, i18n.T(lang, "flash_no_file_selected", nil))
		s.redirect(c, back)
		return
	}

	logger := logging.FromContext(c)
	uploaded := 0
	var rejectedExts []string
	rejectedCount := map[string]int{}
	for _, fh := range files {
		if fh.Filename == "" {
			continue
		}

		name, err := naming.SafeName(fh.Filename)
		if err != nil {
			s.flashes.Error(c, i18n.T(lang, "flash_bad_file_name", map[string]string{"name": fh.Filename}))
			continue
		}

		if !naming.ExtensionAllowed(name, s.allowedExts) {
			ext := strings.ToLower(filepath.Ext(name))
			if rejectedCount[ext] == 0 {
				rejectedExts = append(rejectedExts, ext)
			}
			rejectedCount[ext]++
			continue
		}

		written, err := saveMultipartFile(targetDir, name, fh)
		if err != nil {
			logger.Warn("upload failed", zap.String("name", name), zap.Error(err))
			metrics.RecordOperation("upload", false)
			s.flashes.Error(c, i18n.T(lang, "flash_upload_failed", map[string]string{"name": name, "error": err.Error()}))
			continue
		}

		metrics.RecordOperation("upload", true)
		metrics.RecordUpload(written)
		uploaded++
	}

	// One warning per rejected extension keeps large batches within the
	// flash cookie.
	for _, ext := range rejectedExts {
		if n := rejectedCount[ext]; n > 1 {
			s.flashes.Error(c, i18n.T(lang, "flash_ext_not_allowed_many", map[string]string{"ext": ext, "count": strconv.Itoa(n)}))
			continue
		}
		s.flashes.Error(c, i18n.T(lang, "flash_ext_not_allowed", map[string]string{"ext": ext}))
	}

	if uploaded > 0 {
		s.flashes.Success(c, i18n.T(lang, "flash_upload_success", map[string]string{"count": strconv.Itoa(uploaded)}))
	}
	s.redirect(c, back)
}

func (s *Server) handleNewFolder(c *gin.Context) {
	lang := requestLang(c)
	parentDir := s.resolver.Resolve(pathToken(c))
	back := browseHref(s.resolver.Rel(parentDir))

	raw := strings.TrimSpace(c.PostForm("folder_name"))
	if raw == "" {
		s.flashes.Error(c, i18n.T(lang, "flash_folder_name_empty", nil))
		s.redirect(c, back)
		return
	}

	name, err := naming.SafeName(raw)
	if err != nil {
		s.flashes.Error(c, i18n.T(lang, "flash_folder_name_invalid", nil))
		s.redirect(c, back)
		return
	}

	_, err = makeFolder(parentDir, name)
	switch {
	case err == nil:
		metrics.RecordOperation("mkdir", true)
		s.flashes.Success(c, i18n.T(lang, "flash_folder_created", map[string]string{"name": name}))
	case errors.Is(err, errExists):
		s.flashes.Error(c, i18n.T(lang, "flash_folder_exists", nil))
	default:
		logging.FromContext(c).Warn("create folder failed", zap.String("name", name), zap.Error(err))
		metrics.RecordOperation("mkdir", false)
		s.flashes.Error(c, i18n.T(lang, "flash_folder_create_failed", map[string]string{"error": err.Error()}))
	}
	s.redirect(c, back)
}

func (s *Server) handleDelete(c *gin.Context) {
	lang := requestLang(c)
	target := s.resolver.Resolve(pathToken(c))

	if s.resolver.IsRoot(target) {
		s.flashes.Error(c, i18n.T(lang, "flash_cannot_delete_root", nil))
		s.redirect(c, browseHref(""))
		return
	}

	back := browseHref(parentOf(s.resolver.Rel(target)))

	info, err := os.Lstat(target)
	if err != nil {
		s.flashes.Error(c, i18n.T(lang, "flash_not_exist", nil))
		s.redirect(c, back)
		return
	}

	name := info.Name()
	if err := removePath(target); err != nil {
		logging.FromContext(c).Warn("delete failed", zap.String("path", s.resolver.Rel(target)), zap.Error(err))
		metrics.RecordOperation("delete", false)
		s.flashes.Error(c, i18n.T(lang, "flash_delete_failed", map[string]string{"error": err.Error()}))
		s.redirect(c, back)
		return
	}

	metrics.RecordOperation("delete", true)
	key := "flash_delete_file_success"
	if info.IsDir() {
		key = "flash_delete_folder_success"
	}
	s.flashes.Success(c, i18n.T(lang, key, map[string]string{"name": name}))
	s.redirect(c, back)
}

type apiItem struct {
	Name     string  `json:"name"`
	IsDir    bool    `json:"is_dir"`
	Size     int64   `json:"size"`
	Modified float64 `json:"modified"`
}

func (s *Server) handleAPIFiles(c *gin.Context) {
	absolutePath := s.resolver.Resolve(pathToken(c))

	info, err := os.Stat(absolutePath)
	if err != nil || !info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(requestLang(c), "api_dir_not_exist", nil)})
		return
	}

	entries, err := s.listEntries(absolutePath)
	if err != nil {
		logging.FromContext(c).Warn("listing incomplete", zap.String("dir", s.resolver.Rel(absolutePath)), zap.Error(err))
	}

	items := make([]apiItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, apiItem{
			Name:     entry.Name,
			IsDir:    entry.IsDir,
			Size:     entry.Size,
			Modified: float64(entry.ModTime.UnixNano()) / 1e9,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleSetLang(c *gin.Context) {
	lang := c.Param("code")
	if i18n.Supported(lang) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(langCookie, lang, langMaxAge, "/", "", false, false)
	}
	s.redirect(c, localReferer(c))
}

// localReferer returns the path of the referring page when it is a local
// path, "/" otherwise.
func localReferer(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return "/"
	}
	return ref.EscapedPath()
}

func requestLang(c *gin.Context) string {
	if lang, err := c.Cookie(langCookie); err == nil && i18n.Supported(lang) {
		return lang
	}
	return i18n.DefaultLang
}

func buildEntryViews(lang string, entries []fileEntry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		view := entryView{
			Name:         entry.Name,
			IsDir:        entry.IsDir,
			Icon:         naming.Icon(entry.Name, entry.IsDir),
			Modified:     entry.ModTime.Format(modifiedTime),
			DeleteAction: buildHref(deletePrefix, entry.RelativePath),
		}

		params := map[string]string{"name": entry.Name}
		if entry.IsDir {
			view.Href = browseHref(entry.RelativePath)
			view.ConfirmDelete = i18n.T(lang, "confirm_delete_folder", params)
		} else {
			view.Href = downloadHref(entry.RelativePath)
			view.Size = naming.FormatSize(entry.Size)
			view.ConfirmDelete = i18n.T(lang, "confirm_delete_file", params)
		}

		views = append(views, view)
	}

	return views
}

// redirect saves the notices queued during the request and sends a 302.
func (s *Server) redirect(c *gin.Context, location string) {
	s.flashes.Save(c)
	c.Redirect(http.StatusFound, location)
}

func (s *Server) respondError(c *gin.Context, err error) {
	if err == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var httpErr *httpError
	if errors.As(err, &httpErr) {
		if httpErr.Status >= http.StatusInternalServerError {
			logging.FromContext(c).Error("server error", zap.Error(err))
		}

		c.String(httpErr.Status, httpErr.Message)
		return
	}

	logging.FromContext(c).Error("unexpected error", zap.Error(err))
	c.String(http.StatusInternalServerError, "internal server error")
}
