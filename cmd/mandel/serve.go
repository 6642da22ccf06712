package main

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/hwy-mandel/hwy/contrib/workerpool"
	"github.com/ajroetker/hwy-mandel/internal/config"
	"github.com/ajroetker/hwy-mandel/internal/imageio"
	"github.com/ajroetker/hwy-mandel/mandel"
	"github.com/ajroetker/hwy-mandel/render"
)

//go:embed static
var staticFiles embed.FS

func newServeCmd() *cobra.Command {
	cfg, envErr := envConfig()
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an interactive viewer over WebSocket",
		Long: `serve starts an HTTP server with a browser viewer at / and a WebSocket
endpoint at /ws. Arrow keys pan, + and - zoom, the mouse wheel zooms. Every
connection has its own viewport; all connections share one worker pool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), addr, *cfg)
		},
	}

	cfg.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func serve(ctx context.Context, addr string, cfg config.Config) error {
	r, err := render.NewRenderer(cfg.Options())
	if err != nil {
		return err
	}
	pool := workerpool.New(cfg.Workers)
	defer pool.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newViewer(r, pool, cfg.Viewport()),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", addr, "workers", pool.NumWorkers(), "lanes", r.Lanes())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// viewer serves the browser page and one render session per WebSocket.
type viewer struct {
	renderer *render.Renderer
	exec     workerpool.Executor
	start    mandel.Viewport
}

func newViewer(r *render.Renderer, exec workerpool.Executor, start mandel.Viewport) http.Handler {
	v := &viewer{renderer: r, exec: exec, start: start}
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", v.handleWS)
	mux.Handle("/", http.FileServerFS(static))
	return mux
}

func (v *viewer) handleWS(w http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(w, req, nil)
	if err != nil {
		slog.Warn("websocket accept", "remote", req.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()
	// Inputs are small JSON objects.
	conn.SetReadLimit(4096)

	s, err := newSession(conn, v.renderer, v.exec, v.start)
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, err.Error())
		return
	}
	slog.Info("session started", "remote", req.RemoteAddr)
	err = s.run(req.Context())
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		err = nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("session ended", "remote", req.RemoteAddr, "err", err)
		_ = conn.Close(websocket.StatusInternalError, "render failed")
		return
	}
	slog.Info("session ended", "remote", req.RemoteAddr, "frames", s.driver.Frames())
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

// inputMessage is a client event. Type is "key", "wheel" or "reset".
type inputMessage struct {
	Type string  `json:"type"`
	Key  string  `json:"key,omitempty"`
	DY   float64 `json:"dy,omitempty"`
}

// frameMessage precedes every binary PNG frame.
type frameMessage struct {
	Frame     uint64  `json:"frame"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	Zoom      float64 `json:"zoom"`
	ElapsedMS float64 `json:"elapsedMs"`
}

// session renders frames for one connection. Input is applied to the
// driver as it arrives; the draw loop redraws once per burst of input, and
// each frame uses the viewport as it was when that frame started.
type session struct {
	conn    *websocket.Conn
	driver  *render.Driver
	surface *render.MemorySurface
	start   mandel.Viewport
	dirty   chan struct{}

	mu        sync.Mutex
	presented mandel.Viewport
}

func newSession(conn *websocket.Conn, r *render.Renderer, exec workerpool.Executor, start mandel.Viewport) (*session, error) {
	g := r.Grid()
	s := &session{
		conn:    conn,
		surface: render.NewMemorySurface(g.Width, g.Height, 0),
		start:   start,
		dirty:   make(chan struct{}, 1),
	}
	d, err := render.NewDriver(r, exec, s.surface, start)
	if err != nil {
		return nil, err
	}
	d.OnPresent = func(vp mandel.Viewport) {
		s.mu.Lock()
		s.presented = vp
		s.mu.Unlock()
	}
	s.driver = d
	return s, nil
}

func (s *session) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(ctx) })
	g.Go(func() error { return s.drawLoop(ctx) })
	return g.Wait()
}

func (s *session) readLoop(ctx context.Context) error {
	for {
		var msg inputMessage
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			return err
		}
		if s.apply(msg) {
			s.markDirty()
		}
	}
}

// apply updates the viewport and reports whether a redraw is needed.
func (s *session) apply(msg inputMessage) bool {
	switch msg.Type {
	case "key":
		return s.driver.HandleKey(msg.Key)
	case "wheel":
		s.driver.HandleWheel(msg.DY)
		return msg.DY != 0
	case "reset":
		return s.driver.SetViewport(s.start) == nil
	default:
		slog.Debug("ignored input", "type", msg.Type)
		return false
	}
}

func (s *session) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *session) drawLoop(ctx context.Context) error {
	s.markDirty()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.dirty:
		}
		if err := s.draw(ctx); err != nil {
			return err
		}
	}
}

// draw renders and sends one frame. A frame that fails to render is logged
// and skipped; the client keeps showing the previous one.
func (s *session) draw(ctx context.Context) error {
	start := time.Now()
	if err := s.driver.Redraw(ctx); err != nil {
		if ctx.Err() != nil || errors.Is(err, workerpool.ErrClosed) {
			return err
		}
		slog.Warn("frame skipped", "err", err)
		return nil
	}
	elapsed := time.Since(start)

	var png bytes.Buffer
	img := s.surface.Image()
	if err := imageio.Encode(&png, img, imageio.PNG); err != nil {
		return err
	}

	s.mu.Lock()
	vp := s.presented
	s.mu.Unlock()
	meta := frameMessage{
		Frame:     s.driver.Frames(),
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		OffsetX:   vp.OffsetX,
		OffsetY:   vp.OffsetY,
		Zoom:      vp.Zoom,
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
	}
	if err := wsjson.Write(ctx, s.conn, meta); err != nil {
		return fmt.Errorf("send frame header: %w", err)
	}
	if err := s.conn.Write(ctx, websocket.MessageBinary, png.Bytes()); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}
