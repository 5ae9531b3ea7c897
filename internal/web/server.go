package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/jaminalder/codex-othello/internal/app"
    "github.com/jaminalder/codex-othello/internal/render"
    "go.uber.org/zap"
)

// Option configures the server.
type Option func(*handlers)

// WithLogger sets the request and handler logger.
func WithLogger(l *zap.Logger) Option {
    return func(h *handlers) {
        if l != nil {
            h.log = l
        }
    }
}

// WithBoardRenderer replaces the PNG renderer behind /board.png.
func WithBoardRenderer(r render.BoardRenderer) Option {
    return func(h *handlers) {
        if r != nil {
            h.png = r
        }
    }
}

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{svc: s, tpl: loadTemplates(), png: render.NewPNGRenderer(), log: zap.NewNop()}
    for _, opt := range opts {
        opt(h)
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "", "") })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(requestLogger(h.log))
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Post("/game/import", h.importGame)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/play", h.play)
        r.Post("/save", h.save)
        r.Post("/restore", h.restore)
        r.Get("/snapshot", h.snapshot)
        r.Get("/board.png", h.boardPNG)
        r.Get("/events", h.events)
        r.Get("/ws", h.stream)
    })
    return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            next.ServeHTTP(ww, r)
            log.Debug("http request",
                zap.String("request_id", middleware.GetReqID(r.Context())),
                zap.String("method", r.Method),
                zap.String("path", r.URL.Path),
                zap.Int("status", ww.Status()),
                zap.Int("bytes", ww.BytesWritten()),
                zap.Duration("elapsed", time.Since(start)),
            )
        })
    }
}
