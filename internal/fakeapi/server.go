// Package fakeapi is an in-memory stand-in for the auth, entry and verdict collaborators. It is used by tests and
// local development.
package fakeapi

import (
	"encoding/json"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/myrjola/reelcheck/internal/errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	RouteLogin       = "login"
	RouteCheckLogin  = "check-login"
	RouteListEntries = "list-entries"
	RouteGetEntry    = "get-entry"
	RouteCreate      = "create-entry"
	RouteCheck       = "check-authenticity"
)

const tokenLifetime = time.Hour

type storedEntry struct {
	ID        string          `json:"_id"`
	Worthy    bool            `json:"worthy"`
	ReelID    string          `json:"insta_reel_id"`
	CreatedAt string          `json:"created_at"`
	UserEmail string          `json:"user_email"`
	Response  json.RawMessage `json:"response"`
	Feedback  json.RawMessage `json:"feedback"`
}

type summary struct {
	ID        string `json:"_id"`
	Worthy    bool   `json:"worthy"`
	ReelID    string `json:"insta_reel_id"`
	CreatedAt string `json:"created_at"`
}

// Server is the fake collaborator. All state lives in memory and is lost on restart.
type Server struct {
	mu       sync.Mutex
	secret   []byte
	accounts map[string]string
	entries  []storedEntry
	calls    map[string]int
	checks   []string
	delay    time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Server {
	return &Server{
		mu:       sync.Mutex{},
		secret:   []byte(uuid.NewString()),
		accounts: make(map[string]string),
		entries:  nil,
		calls:    make(map[string]int),
		checks:   nil,
		delay:    0,
		now:      time.Now,
		logger:   logger.With(slog.String("source", "fakeapi")),
	}
}

// AddAccount registers credentials accepted by the login route.
func (s *Server) AddAccount(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = password
}

// RotateSecret invalidates every token issued so far.
func (s *Server) RotateSecret() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(uuid.NewString())
}

// SetCheckDelay makes every authenticity check take at least d, like the real verdict collaborator does.
func (s *Server) SetCheckDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Calls returns how many times the named route has been hit.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// CheckedURLs returns the URLs submitted for authenticity checks in order.
func (s *Server) CheckedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.checks...)
}

// StoredResponse returns the raw response persisted for the entry with reelID.
func (s *Server) StoredResponse(reelID string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ReelID == reelID {
			return e.Response, true
		}
	}
	return nil, false
}

func (s *Server) count(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.calls[route]++
		s.mu.Unlock()
		c.Next()
	}
}

// Handler serves every collaborator under /api. The verdict route shares the prefix so one URL covers all.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequest())
	r.Use(cors.New(cors.Config{ //nolint:exhaustruct // defaults suffice
		AllowOrigins:     []string{"http://localhost:4000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		api.POST("/auth/login", s.count(RouteLogin), s.login)
		api.POST("/checkAuthenticity", s.count(RouteCheck), s.checkAuthenticity)

		secured := api.Group("")
		secured.Use(s.requireJWT())
		secured.GET("/auth/check-login", s.count(RouteCheckLogin), s.checkLogin)
		secured.GET("/entries/get", s.count(RouteListEntries), s.listEntries)
		secured.GET("/entries/get/:id", s.count(RouteGetEntry), s.getEntry)
		secured.POST("/entries/create", s.count(RouteCreate), s.createEntry)
	}
	return r
}

func (s *Server) logRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "fake collaborator request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)))
	}
}

func abortMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func (s *Server) issueJWT(email string) (string, error) {
	s.mu.Lock()
	secret := s.secret
	now := s.now()
	s.mu.Unlock()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (s *Server) requireJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			abortMessage(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		s.mu.Lock()
		secret := s.secret
		s.mu.Unlock()
		tok, err := jwt.Parse(h[len("Bearer "):], func(_ *jwt.Token) (any, error) { return secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			abortMessage(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		email, err := tok.Claims.GetSubject()
		if err != nil || email == "" {
			abortMessage(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set("email", email)
		c.Next()
	}
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	s.mu.Lock()
	password, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || password != req.Password {
		abortMessage(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := s.issueJWT(req.Email)
	if err != nil {
		abortMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *Server) checkLogin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logged_in": true, "email": c.GetString("email")})
}

func (s *Server) listEntries(c *gin.Context) {
	email := c.GetString("email")
	s.mu.Lock()
	list := make([]summary, 0, len(s.entries))
	for _, e := range s.entries {
		if e.UserEmail == email {
			list = append(list, summary{ID: e.ID, Worthy: e.Worthy, ReelID: e.ReelID, CreatedAt: e.CreatedAt})
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"entries": list})
}

func (s *Server) getEntry(c *gin.Context) {
	id := c.Param("id")
	email := c.GetString("email")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id && e.UserEmail == email {
			c.JSON(http.StatusOK, e)
			return
		}
	}
	abortMessage(c, http.StatusNotFound, "Entry not found")
}

func (s *Server) createEntry(c *gin.Context) {
	var req struct {
		ReelID   string          `json:"insta_reel_id" binding:"required"`
		Worthy   *bool           `json:"worthy"        binding:"required"`
		Response json.RawMessage `json:"response"`
		Feedback json.RawMessage `json:"feedback"      binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusUnprocessableEntity, "insta_reel_id, worthy and feedback are required")
		return
	}
	entry := storedEntry{
		ID:        uuid.NewString(),
		Worthy:    *req.Worthy,
		ReelID:    req.ReelID,
		CreatedAt: s.now().UTC().Format("2006-01-02T15:04:05.000000"),
		UserEmail: c.GetString("email"),
		Response:  req.Response,
		Feedback:  req.Feedback,
	}
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"message": "Entry created", "_id": entry.ID})
}

func (s *Server) checkAuthenticity(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
		Log string `json:"log"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "url is required")
		return
	}
	s.mu.Lock()
	s.checks = append(s.checks, req.URL)
	delay := s.delay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	switch {
	case strings.Contains(req.URL, "fail"):
		abortMessage(c, http.StatusBadGateway, "Could not download reel")
	case strings.Contains(req.URL, "not-worthy"):
		c.Data(http.StatusOK, "application/json", []byte(NotWorthyResponse))
	default:
		c.Data(http.StatusOK, "application/json", []byte(WorthyResponse))
	}
}
