package web

import (
    "bufio"
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/codex-othello/internal/app"
    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/jaminalder/codex-othello/internal/render"
    "github.com/jaminalder/codex-othello/internal/store"
    "go.uber.org/zap"
    "nhooyr.io/websocket"
    "nhooyr.io/websocket/wsjson"
)

const maxSnapshotBytes = 64 << 10

type handlers struct {
    svc *app.Service
    tpl *templates
    png render.BoardRenderer
    log *zap.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg, notice string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg, notice))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg, notice string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, errMsg, notice))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.CreateGame()
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

// importGame accepts a snapshot either as a JSON body or as the
// "snapshot" form field.
func (h *handlers) importGame(w http.ResponseWriter, r *http.Request) {
    var src io.Reader
    if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
        src = http.MaxBytesReader(w, r.Body, maxSnapshotBytes)
    } else {
        r.Body = http.MaxBytesReader(w, r.Body, maxSnapshotBytes)
        if err := r.ParseForm(); err != nil {
            http.Error(w, "invalid form", http.StatusBadRequest)
            return
        }
        src = strings.NewReader(r.Form.Get("snapshot"))
    }
    snap, err := store.JSON.Decode(src)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    gs, err := h.svc.Import(snap)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "", newBoardView(*gs, "", "")))
}

// play takes either a board index in "pos" or a command such as "d3" in
// "cmd". Rule violations come back as a board fragment with a message.
func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()

    var (
        gs  *app.GameState
        err error
    )
    if cmd := strings.TrimSpace(r.Form.Get("cmd")); cmd != "" {
        gs, err = h.svc.PlayCommand(id, cmd)
    } else {
        pos, perr := strconv.Atoi(r.Form.Get("pos"))
        if perr != nil {
            err = fmt.Errorf("%w: pos %q", app.ErrInvalidPlacement, r.Form.Get("pos"))
        } else {
            gs, err = h.svc.Play(id, domain.Position(pos))
        }
    }
    var errMsg string
    if err != nil {
        if errors.Is(err, app.ErrNotFound) {
            http.NotFound(w, r)
            return
        }
        errMsg = playErrorMessage(err)
        g, ok := h.svc.Get(id)
        if !ok {
            http.NotFound(w, r)
            return
        }
        gs = g
    }
    h.writeBoard(w, *gs, errMsg, "")
}

func playErrorMessage(err error) string {
    switch {
    case errors.Is(err, domain.ErrInvalidCommandFormat):
        return "Invalid input. Enter a column A-H and a row 1-8, for example D3"
    case errors.Is(err, app.ErrGameOver):
        return "Game is over"
    case errors.Is(err, app.ErrInvalidPlacement):
        return "That is not a legal move"
    default:
        return "Move failed"
    }
}

func (h *handlers) save(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    var errMsg, notice string
    switch err := h.svc.Save(r.Context(), id); {
    case err == nil:
        notice = "Game saved"
    case errors.Is(err, app.ErrNoStore):
        errMsg = "Saving is disabled"
    default:
        h.log.Warn("save", zap.String("game_id", id), zap.Error(err))
        errMsg = "Save failed"
    }
    h.writeBoard(w, *gs, errMsg, notice)
}

func (h *handlers) restore(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Restore(r.Context(), id)
    if err != nil {
        cur, ok := h.svc.Get(id)
        if !ok {
            http.NotFound(w, r)
            return
        }
        var errMsg string
        switch {
        case errors.Is(err, app.ErrNoStore):
            errMsg = "Saving is disabled"
        case errors.Is(err, app.ErrNotFound):
            errMsg = "No saved game"
        default:
            h.log.Warn("restore", zap.String("game_id", id), zap.Error(err))
            errMsg = "Restore failed"
        }
        h.writeBoard(w, *cur, errMsg, "")
        return
    }
    h.writeBoard(w, *gs, "", "Game restored")
}

func (h *handlers) snapshot(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    snap, err := h.svc.Snapshot(id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    var buf bytes.Buffer
    if err := store.JSON.Encode(&buf, snap); err != nil {
        http.Error(w, "encode failed", http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _, _ = w.Write(buf.Bytes())
}

func (h *handlers) boardPNG(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    opts := render.Options{ShowMoves: r.URL.Query().Get("moves") == "1"}
    if gs.LastMove >= 0 {
        last := gs.LastMove
        opts.Highlight = &last
    }
    img, err := h.png.RenderPNG(r.Context(), gs.Game, opts)
    if err != nil {
        h.log.Warn("render png", zap.String("game_id", id), zap.Error(err))
        http.Error(w, "render failed", http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "image/png")
    w.Header().Set("Cache-Control", "no-store")
    _, _ = w.Write(img)
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", b)
            flusher.Flush()
        }
    }
}

// writeEvent frames a possibly multi-line payload as one SSE event.
func writeEvent(w io.Writer, name string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", name)
    sc := bufio.NewScanner(bytes.NewReader(payload))
    sc.Buffer(make([]byte, 0, 4096), len(payload)+1)
    for sc.Scan() {
        _, _ = fmt.Fprintf(w, "data: %s\n", sc.Text())
    }
    _, _ = io.WriteString(w, "\n")
}

// stateView is the JSON form of a game pushed over the websocket.
type stateView struct {
    ID         string   `json:"id"`
    Turn       string   `json:"turn"`
    DarkCount  int      `json:"darkCount"`
    LightCount int      `json:"lightCount"`
    Passes     int      `json:"passCounter"`
    LastMove   string   `json:"lastMove,omitempty"`
    LastPasses int      `json:"lastPasses"`
    Over       bool     `json:"over"`
    Victor     string   `json:"victor,omitempty"`
    Moves      []string `json:"moves"`
    // Board lists the 64 squares row by row: 'D' dark, 'L' light, '.' empty.
    Board string `json:"board"`
}

func newStateView(gs app.GameState) stateView {
    g := gs.Game
    v := stateView{
        ID:         gs.ID,
        Turn:       g.Turn().String(),
        DarkCount:  g.DarkCount(),
        LightCount: g.LightCount(),
        Passes:     g.Passes(),
        LastPasses: gs.LastPasses,
        Over:       g.IsOver(),
        Moves:      []string{},
    }
    if gs.LastMove >= 0 {
        v.LastMove = gs.LastMove.String()
    }
    if v.Over {
        v.Victor = g.Victor().String()
    } else {
        for _, p := range g.Moves() {
            v.Moves = append(v.Moves, p.String())
        }
    }
    board := []byte(strings.Repeat(".", domain.Squares))
    for _, pc := range g.Pieces() {
        board[pc.Position()] = 'D'
        if pc.Color == domain.Light {
            board[pc.Position()] = 'L'
        }
    }
    v.Board = string(board)
    return v
}

var wsWriteTimeout = 5 * time.Second

// stream pushes the current state and then every update as JSON. Client
// frames are ignored.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := websocket.Accept(w, r, nil)
    if err != nil {
        h.log.Debug("websocket accept", zap.String("game_id", id), zap.Error(err))
        return
    }
    defer conn.CloseNow()

    ctx := conn.CloseRead(r.Context())
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()

    if err := h.pushState(ctx, conn, id); err != nil {
        return
    }
    for {
        select {
        case <-ctx.Done():
            return
        case _, ok := <-ch:
            if !ok {
                _ = conn.Close(websocket.StatusPolicyViolation, "too slow")
                return
            }
            if err := h.pushState(ctx, conn, id); err != nil {
                return
            }
        }
    }
}

func (h *handlers) pushState(ctx context.Context, conn *websocket.Conn, id string) error {
    gs, ok := h.svc.Get(id)
    if !ok {
        return app.ErrNotFound
    }
    wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
    defer cancel()
    if err := wsjson.Write(wctx, conn, newStateView(*gs)); err != nil {
        h.log.Debug("websocket write", zap.String("game_id", id), zap.Error(err))
        return err
    }
    return nil
}
