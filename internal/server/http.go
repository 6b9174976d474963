package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"micro-city/internal/game"
	"micro-city/internal/render"
	"micro-city/internal/tiles"
)

const (
	defaultScale = 4
	maxScale     = 8
)

// Response is the JSON envelope of the API.
type Response struct {
	Code      int         `json:"code"`
	Msg       string      `json:"msg"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// HTTPServer serves rendered frames, the tile atlas, city stats and a
// websocket frame stream.
type HTTPServer struct {
	gameLoop *game.GameLoop
	atlas    *tiles.Atlas
	frames   *FrameCache
	addr     string
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
	engine   *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

// NewHTTPServer builds the router. frames may be nil to disable caching.
func NewHTTPServer(addr string, gl *game.GameLoop, atlas *tiles.Atlas, frames *FrameCache, log logrus.FieldLogger) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		gameLoop: gl,
		atlas:    atlas,
		frames:   frames,
		addr:     addr,
		log:      log.WithField("component", "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	e := gin.New()
	e.Use(gin.Recovery(), s.requestLogger(), cors.Default())
	s.routes(e.Group("/"))
	s.engine = e
	return s
}

func (s *HTTPServer) routes(g *gin.RouterGroup) {
	g.GET("healthz", s.health)
	g.GET("city", s.cityStats)
	g.GET("atlas.png", s.atlasPNG)
	g.GET("frame.png", s.framePNG)
	g.GET("stream", s.stream)
}

// Handler exposes the router.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Start listens until Shutdown is called.
func (s *HTTPServer) Start() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.log.WithField("addr", s.addr).Info("HTTP server listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener and waits for requests to finish.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("Request")
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "success", Data: data, Timestamp: time.Now().Unix()})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Msg: msg, Timestamp: time.Now().Unix()})
}

func (s *HTTPServer) health(c *gin.Context) {
	ok(c, gin.H{
		"status":    "ok",
		"viewers":   s.gameLoop.ViewerCount(),
		"tick_rate": s.gameLoop.TickRate(),
		"version":   s.gameLoop.World().Version(),
	})
}

func (s *HTTPServer) cityStats(c *gin.Context) {
	ok(c, s.gameLoop.World().Stats())
}

func (s *HTTPServer) atlasPNG(c *gin.Context) {
	var buf bytes.Buffer
	if err := tiles.EncodePNG(&buf, s.atlas); err != nil {
		s.log.WithError(err).Error("Encode atlas")
		fail(c, http.StatusInternalServerError, "encode atlas")
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// intQuery parses an integer query parameter, def when absent.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// framePNG renders one frame at a pixel scroll position. The scroll is
// clamped to the map and the cursor is not drawn.
func (s *HTTPServer) framePNG(c *gin.Context) {
	x, err := intQuery(c, "x", 0)
	if err != nil {
		fail(c, http.StatusBadRequest, "bad x")
		return
	}
	y, err := intQuery(c, "y", 0)
	if err != nil {
		fail(c, http.StatusBadRequest, "bad y")
		return
	}
	frame, err := intQuery(c, "frame", 0)
	if err != nil || frame < 0 || frame > 255 {
		fail(c, http.StatusBadRequest, "bad frame")
		return
	}
	scale, err := intQuery(c, "scale", defaultScale)
	if err != nil || scale < 1 || scale > maxScale {
		fail(c, http.StatusBadRequest, "bad scale")
		return
	}

	vp := render.Viewport{ViewW: render.DisplayWidth, ViewH: render.DisplayHeight}.ScrollTo(x, y)
	world := s.gameLoop.World()
	key := frameKey(world.Version(), vp.ScrollX, vp.ScrollY, uint8(frame), scale)
	if png, hit := s.frames.Get(key); hit {
		c.Header("X-Cache", "hit")
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	view := world.NewView(s.atlas, render.WithStartFrame(uint8(frame)))
	f := render.NewFrame(render.DisplayWidth, render.DisplayHeight)
	view.Draw(render.Scene{ScrollX: vp.ScrollX, ScrollY: vp.ScrollY}, f)

	var buf bytes.Buffer
	if err := f.EncodePNG(&buf, scale); err != nil {
		s.log.WithError(err).Error("Encode frame")
		fail(c, http.StatusInternalServerError, "encode frame")
		return
	}
	s.frames.Set(key, buf.Bytes())
	c.Header("X-Cache", "miss")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
