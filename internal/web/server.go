// Package web serves the portfolio page and the live controller session that
// drives its scroll, reveal, typewriter, pointer and theme behaviour.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/theme"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	visitorCookie = "folio_visitor"
	visitorKey    = "visitor"
	cookieMaxAge  = 3600 * 24 * 365
)

// StorageFor returns the durable preference storage for one visitor.
type StorageFor func(visitorID string) theme.Storage

// Server is the HTTP front end.
type Server struct {
	cfg        config.Config
	storageFor StorageFor
	log        *slog.Logger
	engine     *gin.Engine
	page       pageContent
	server     *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
	startTime  time.Time

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewServer builds the router. Templates and excerpts are rendered once here,
// so a broken template fails at startup rather than on the first request.
func NewServer(cfg config.Config, storageFor StorageFor, log *slog.Logger) (*Server, error) {
	page, err := buildPageContent()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		storageFor: storageFor,
		log:        log,
		page:       page,
		ctx:        ctx,
		cancel:     cancel,
		startTime:  time.Now(),
		sessions:   make(map[*session]struct{}),
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(static))
	r.Static("/images", cfg.ImagesDir)

	r.Use(visitorMiddleware())
	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	r.GET("/api/theme", s.handleTheme)
	r.POST("/api/theme/toggle", s.handleThemeToggle)
	r.GET("/ws", s.handleSession)

	s.engine = r
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Handler:           s.engine,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.ListenAddr())
	if err != nil {
		return err
	}
	s.startTime = time.Now()
	s.log.Info("serving portfolio", "addr", listener.Addr().String())

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server stopped", "error", err)
		}
	}()
	return nil
}

// Stop cancels live sessions and shuts the server down.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// visitorMiddleware gives every page visitor a stable anonymous id, used only
// to scope the stored theme preference.
func visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/favicon") {
			c.Next()
			return
		}

		id, err := c.Cookie(visitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, cookieMaxAge, "/", "", false, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

func (s *Server) themeFor(c *gin.Context) (*theme.Store, theme.Storage) {
	storage := s.storageFor(c.GetString(visitorKey))
	return theme.Load(c.Request.Context(), storage, s.cfg.DefaultDark), storage
}

func (s *Server) handleIndex(c *gin.Context) {
	store, _ := s.themeFor(c)
	c.HTML(http.StatusOK, "index.html", s.pageData(store.IsDark()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"sessions": len(s.liveSessions()),
	})
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess] = struct{}{}
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}

// liveSessions returns the sessions whose handlers are still running.
func (s *Server) liveSessions() []*session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (s *Server) handleTheme(c *gin.Context) {
	store, _ := s.themeFor(c)
	c.JSON(http.StatusOK, themeFrame(store.IsDark()))
}

// handleThemeToggle serves browsers without a live session.
func (s *Server) handleThemeToggle(c *gin.Context) {
	store, _ := s.themeFor(c)
	isDark, err := store.Toggle(c.Request.Context())
	if err != nil {
		s.log.Error("toggling theme", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save theme"})
		return
	}
	c.JSON(http.StatusOK, themeFrame(isDark))
}

func themeFrame(isDark bool) gin.H {
	return gin.H{
		"type":     "theme",
		"darkMode": isDark,
		"tokens":   theme.StyleFor(isDark),
	}
}

// pageContent is the request-independent part of the page.
type pageContent struct {
	Profile      content.Profile
	Nav          []navItem
	Skills       []content.Skill
	Projects     []content.Project
	Posts        []post
	Testimonials []content.Testimonial
	Work         []content.Experience
	Education    []content.Experience
	Phrases      []string
}

type navItem struct {
	ID    string
	Label string
}

type post struct {
	content.BlogPost
	ExcerptHTML template.HTML
}

func buildPageContent() (pageContent, error) {
	p := pageContent{
		Profile:      content.Me,
		Skills:       content.Skills,
		Projects:     content.Projects,
		Testimonials: content.Testimonials,
		Work:         content.Work,
		Education:    content.Education,
		Phrases:      content.Phrases,
	}
	for _, sec := range content.NavSections {
		p.Nav = append(p.Nav, navItem{ID: sec.ID, Label: sec.Label})
	}
	for _, bp := range content.BlogPosts {
		html, err := content.ExcerptHTML(bp.Excerpt)
		if err != nil {
			return p, err
		}
		p.Posts = append(p.Posts, post{BlogPost: bp, ExcerptHTML: html})
	}
	return p, nil
}

type pageData struct {
	pageContent
	DarkMode        bool
	Tokens          theme.Tokens
	ActiveSection   string
	RevealThreshold float64
}

func (s *Server) pageData(isDark bool) pageData {
	active := ""
	if len(s.page.Nav) > 0 {
		active = s.page.Nav[0].ID
	}
	return pageData{
		pageContent:     s.page,
		DarkMode:        isDark,
		Tokens:          theme.StyleFor(isDark),
		ActiveSection:   active,
		RevealThreshold: s.cfg.RevealThreshold,
	}
}

var templateFuncs = template.FuncMap{
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}
