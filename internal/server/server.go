// Package server hosts the quiz over HTTP: a small JSON API and a
// WebSocket endpoint that runs one game per connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/engine"
	"github.com/abhisek/mapquiz/internal/store"
)

const (
	// DefaultGamesLimit is used by /api/games without a limit.
	DefaultGamesLimit = 20
	// MaxGamesLimit caps /api/games.
	MaxGamesLimit = 200

	storeTimeout    = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Options configures a Server. Scores and Games may be nil.
type Options struct {
	Catalog        string
	Regions        []catalog.Region
	WorkingSetSize int
	RoundDelay     time.Duration
	// Shuffle gives every connection its own catalog order.
	Shuffle bool
	Scores  store.HighScoreRepo
	Games   store.GameHistoryRepo
	Logger  *slog.Logger
}

// Server serves the API and game sockets.
type Server struct {
	opts   Options
	log    *slog.Logger
	router *gin.Engine
}

// New builds a Server. It refuses an empty catalog so that a failed load
// never starts serving.
func New(opts Options) (*Server, error) {
	if len(opts.Regions) == 0 {
		return nil, engine.ErrEmptyCatalog
	}
	if opts.RoundDelay <= 0 {
		opts.RoundDelay = engine.DefaultRoundDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	s := &Server{opts: opts, log: opts.Logger, router: router}

	router.GET("/health", s.handleHealth)
	api := router.Group("/api")
	api.GET("/catalog", s.handleCatalog)
	api.GET("/highscore", s.handleHighScore)
	api.GET("/games", s.handleGames)
	router.GET("/ws", s.handleWebSocket)

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", "addr", addr, "regions", len(s.opts.Regions))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "mapquiz",
	})
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    s.opts.Catalog,
		"regions": s.opts.Regions,
	})
}

func (s *Server) handleHighScore(c *gin.Context) {
	if s.opts.Scores == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "high score store not configured"})
		return
	}
	best, err := s.opts.Scores.HighScore(c.Request.Context())
	if err != nil {
		s.log.Error("read high score", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read high score"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"high_score": best})
}

// gameResponse is the JSON form of a recorded game.
type gameResponse struct {
	ID         string    `json:"id"`
	Catalog    string    `json:"catalog"`
	Score      int       `json:"score"`
	Answered   int       `json:"answered"`
	Correct    int       `json:"correct"`
	Mastered   int       `json:"mastered"`
	Rounds     int       `json:"rounds"`
	Accuracy   float64   `json:"accuracy"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMs int64     `json:"duration_ms"`
}

func (s *Server) handleGames(c *gin.Context) {
	if s.opts.Games == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game history not configured"})
		return
	}

	limit := DefaultGamesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, MaxGamesLimit)
	}

	games, err := s.opts.Games.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log.Error("list games", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list games"})
		return
	}

	out := make([]gameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, gameResponse{
			ID:         g.ID,
			Catalog:    g.Catalog,
			Score:      g.Score,
			Answered:   g.Answered,
			Correct:    g.Correct,
			Mastered:   g.Mastered,
			Rounds:     g.Rounds,
			Accuracy:   g.Accuracy(),
			StartedAt:  g.StartedAt,
			EndedAt:    g.EndedAt,
			DurationMs: g.Duration().Milliseconds(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"games": out})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}

	client := newClient(uuid.New().String(), conn, s.log)
	go client.writePump()

	sess := newSession(s.opts.RoundDelay, client.sendMessage, client.log)
	eng, err := s.newEngine(sess, client.log)
	if err != nil {
		client.log.Error("create engine", "error", err)
		client.sendError(err.Error())
		close(client.send)
		return
	}
	sess.eng = eng

	st := eng.State()
	client.sendMessage(MessageTypeConnected, ConnectedPayload{
		ConnectionID: client.ID,
		GameID:       st.GameID,
		HighScore:    st.HighScore,
		Regions:      len(s.opts.Regions),
	})
	client.log.Info("client connected", "game", st.GameID)

	ctx, cancel := context.WithCancel(context.Background())
	go sess.run(ctx)
	go func() {
		client.readPump(sess)
		cancel()
		<-sess.done
		close(client.send)
		client.log.Info("client disconnected")
	}()
}

// newEngine builds the engine for one connection, seeded with the shared
// high score.
func (s *Server) newEngine(sink engine.Sink, log *slog.Logger) (*engine.Engine, error) {
	regions := s.opts.Regions
	if s.opts.Shuffle {
		regions = slices.Clone(regions)
		catalog.Shuffle(regions, nil)
	}

	highScore := 0
	if s.opts.Scores != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		best, err := s.opts.Scores.HighScore(ctx)
		if err != nil {
			log.Warn("read high score", "error", err)
		} else {
			highScore = best
		}
	}

	opts := []engine.Option{
		engine.WithSink(sink),
		engine.WithWorkingSetSize(s.opts.WorkingSetSize),
		engine.WithHighScore(highScore),
		engine.WithLogger(log),
	}
	if s.opts.Scores != nil {
		opts = append(opts, engine.WithScoreStore(s.opts.Scores))
	}
	if s.opts.Games != nil {
		opts = append(opts, engine.WithGameRecorder(s.opts.Games))
	}
	return engine.New(regions, opts...)
}
