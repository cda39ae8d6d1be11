package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"filebrowser/internal/config"
	"filebrowser/internal/flash"
	"filebrowser/internal/logging"
	"filebrowser/internal/metrics"
	"filebrowser/internal/naming"
	"filebrowser/internal/sandbox"
)

type Server struct {
	engine        *gin.Engine
	resolver      *sandbox.Resolver
	flashes       *flash.Store
	allowedExts   []string
	maxUploadSize int64
}

// New wires the HTTP routes around the storage root named in cfg. The root
// must already exist.
func New(cfg config.Config) (*Server, error) {
	resolver, err := sandbox.NewResolver(cfg.StorageRoot)
	if err != nil {
		return nil, err
	}

	flashes, err := flash.NewStore(cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	indexTemplate, err := newIndexTemplate()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(logging.Middleware(), metrics.Middleware(), gin.Recovery())
	engine.SetHTMLTemplate(indexTemplate)

	srv := &Server{
		engine:        engine,
		resolver:      resolver,
		flashes:       flashes,
		allowedExts:   naming.ParseExtensions(cfg.AllowedExtensions),
		maxUploadSize: cfg.MaxUploadSize,
	}

	engine.GET("/", srv.handleBrowse)
	engine.GET("/browse/*path", srv.handleBrowse)
	engine.GET("/download/*path", srv.handleDownload)
	engine.POST("/upload/*path", srv.handleUpload)
	engine.POST("/new_folder/*path", srv.handleNewFolder)
	engine.POST("/delete/*path", srv.handleDelete)
	engine.GET("/api/files/*path", srv.handleAPIFiles)
	engine.GET("/lang/:code", srv.handleSetLang)
	engine.GET("/metrics", metrics.Handler())

	return srv, nil
}

// Root is the canonical storage root every request is confined to.
func (s *Server) Root() string {
	return s.resolver.Root()
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}
