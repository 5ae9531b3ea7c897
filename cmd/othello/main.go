// othello serves hot-seat Othello over HTTP or plays it in the terminal.
package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/codex-othello/internal/app"
    "github.com/jaminalder/codex-othello/internal/config"
    "github.com/jaminalder/codex-othello/internal/console"
    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/jaminalder/codex-othello/internal/obslog"
    "github.com/jaminalder/codex-othello/internal/store"
    "github.com/jaminalder/codex-othello/internal/web"
    "go.uber.org/zap"
)

func usage() {
    fmt.Fprintf(os.Stderr, `Usage:
  othello serve [-config path]   run the web UI
  othello play  [-load path]     play in the terminal
`)
}

func main() {
    if len(os.Args) < 2 {
        usage()
        os.Exit(2)
    }
    var err error
    switch os.Args[1] {
    case "serve":
        ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
        err = serve(ctx, os.Args[2:])
        stop()
    case "play":
        ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
        err = play(ctx, os.Args[2:], os.Stdin, os.Stdout, os.Stderr)
        stop()
    case "-h", "-help", "--help", "help":
        usage()
        return
    default:
        usage()
        os.Exit(2)
    }
    if err != nil {
        fmt.Fprintf(os.Stderr, "othello: %v\n", err)
        os.Exit(1)
    }
}

func serve(ctx context.Context, args []string) error {
    fs := flag.NewFlagSet("serve", flag.ExitOnError)
    configPath := fs.String("config", "", "YAML config file")
    _ = fs.Parse(args)

    cfg, err := config.Load(*configPath)
    if err != nil {
        return err
    }
    log, err := obslog.New(cfg.Log)
    if err != nil {
        return err
    }
    defer func() { _ = log.Sync() }()

    st, closeStore, err := openStore(ctx, cfg)
    if err != nil {
        return err
    }
    defer func() {
        if err := closeStore(); err != nil {
            log.Warn("close store", zap.Error(err))
        }
    }()

    svc := app.NewService()
    svc.SetLogger(log.Named("app"))
    if st != nil {
        svc.SetStore(st)
    }

    // No WriteTimeout: /events and /ws stay open.
    srv := &http.Server{
        Addr:              cfg.HTTPAddr,
        Handler:           web.NewServer(svc, web.WithLogger(log.Named("http"))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       10 * time.Second,
        IdleTimeout:       60 * time.Second,
        MaxHeaderBytes:    1 << 16,
    }

    errCh := make(chan error, 1)
    go func() {
        log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.Store))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            errCh <- err
        }
        close(errCh)
    }()

    select {
    case err := <-errCh:
        return err
    case <-ctx.Done():
    }
    log.Info("shutting down")
    sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    return srv.Shutdown(sctx)
}

// openStore builds the configured snapshot store. The returned close func is
// never nil.
func openStore(ctx context.Context, cfg *config.AppConfig) (store.Store, func() error, error) {
    noop := func() error { return nil }
    switch cfg.Store {
    case config.StoreFile:
        codec, err := store.CodecByName(cfg.SnapshotFormat)
        if err != nil {
            return nil, noop, err
        }
        fs, err := store.NewFileStore(cfg.SaveDir, codec)
        if err != nil {
            return nil, noop, err
        }
        return fs, noop, nil
    case config.StoreRedis:
        rs, err := store.OpenRedis(ctx, cfg.RedisURL, cfg.SnapshotTTL())
        if err != nil {
            return nil, noop, err
        }
        return rs, rs.Close, nil
    case config.StorePostgres:
        ps, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
        if err != nil {
            return nil, noop, err
        }
        if err := ps.EnsureSchema(ctx); err != nil {
            _ = ps.Close()
            return nil, noop, err
        }
        return ps, ps.Close, nil
    default:
        return nil, noop, nil
    }
}

// play runs a terminal game on in/out, logging to logOut.
func play(ctx context.Context, args []string, in io.Reader, out, logOut io.Writer) error {
    fs := flag.NewFlagSet("play", flag.ExitOnError)
    configPath := fs.String("config", "", "YAML config file")
    loadPath := fs.String("load", "", "start from a saved .json or .yaml game")
    showMoves := fs.Bool("moves", false, "mark legal moves on the board")
    logLevel := fs.String("log-level", "", "override the configured log level")
    _ = fs.Parse(args)

    cfg, err := config.Load(*configPath)
    if err != nil {
        return err
    }
    if *logLevel != "" {
        cfg.Log.Level = *logLevel
    }
    log, err := obslog.NewWriter(cfg.Log, logOut)
    if err != nil {
        return err
    }
    defer func() { _ = log.Sync() }()

    var g *domain.Game
    if *loadPath != "" {
        snap, err := store.ReadFile(*loadPath)
        if err != nil {
            return err
        }
        if g, err = domain.FromSnapshot(snap); err != nil {
            return err
        }
    }
    s := console.NewSession(g, in, out)
    s.SetLogger(log.Named("console"))
    s.ShowMoves = *showMoves
    err = s.Run(ctx)
    switch {
    case errors.Is(err, console.ErrInputClosed):
        return nil
    case errors.Is(err, context.Canceled):
        log.Info("interrupted")
        return nil
    }
    return err
}
