// Package console runs a hot-seat game on a text terminal.
package console

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "strings"

    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/jaminalder/codex-othello/internal/render"
    "github.com/jaminalder/codex-othello/internal/store"
    "go.uber.org/zap"
)

// ErrInputClosed is returned when input ends before the game does.
var ErrInputClosed = errors.New("input closed before the game ended")

const helpText = `Commands:
  <letter><number>  place a disc, for example D3
  save <path>       write the game to a .json or .yaml file
  load <path>       replace the game with a saved one
  help              show this text
  quit              leave without finishing`

// Session plays one game reading commands from in and writing to out.
type Session struct {
    game *domain.Game
    in   *bufio.Scanner
    out  io.Writer
    log  *zap.Logger
    // lines and done connect Run to the goroutine reading in.
    lines chan string
    done  chan struct{}
    // ShowMoves marks legal targets on the printed board.
    ShowMoves bool
}

// NewSession starts from g, or from the opening when g is nil.
func NewSession(g *domain.Game, in io.Reader, out io.Writer) *Session {
    if g == nil {
        g = domain.New()
    }
    return &Session{game: g, in: bufio.NewScanner(in), out: out, log: zap.NewNop()}
}

// SetLogger replaces the logger; nil disables logging.
func (s *Session) SetLogger(l *zap.Logger) {
    if l == nil {
        l = zap.NewNop()
    }
    s.log = l
}

// Game returns the game being played.
func (s *Session) Game() *domain.Game { return s.game }

// Run plays until the game ends, the user quits, input runs out or ctx is
// cancelled. Quitting is not an error. Run is called at most once per
// Session.
func (s *Session) Run(ctx context.Context) error {
    s.startReader()
    defer close(s.done)
    s.printf("Welcome to Othello! Dark discs are shown as %s and light discs as %s.\n", render.DarkGlyph, render.LightGlyph)
    s.printf("Type help for the list of commands. Have fun!\n")
    for !s.game.IsOver() {
        if err := ctx.Err(); err != nil {
            return err
        }
        if !s.game.CheckAnyValidMoves() {
            s.printf("%s has no legal moves and passes.\n", name(s.game.Turn().Opponent()))
            s.game.CheckGameOver()
            continue
        }
        s.printTurn()
        quit, err := s.turn(ctx)
        if err != nil {
            return err
        }
        if quit {
            s.printf("Goodbye.\n")
            return nil
        }
    }
    s.printEnd()
    return nil
}

// turn reads commands until one places a disc or loads a game.
func (s *Session) turn(ctx context.Context) (quit bool, err error) {
    s.printf("Command: ")
    for {
        line, err := s.readLine(ctx)
        if err != nil {
            return false, err
        }
        done, quit := s.handle(line)
        if quit {
            return true, nil
        }
        if done {
            return false, nil
        }
        s.printf("Please enter a valid command: ")
    }
}

// handle runs one command. done reports that the turn is finished.
func (s *Session) handle(line string) (done, quit bool) {
    fields := strings.Fields(line)
    if len(fields) == 0 {
        return false, false
    }
    switch strings.ToLower(fields[0]) {
    case "quit", "exit":
        return false, true
    case "help":
        s.printf("%s\n", helpText)
        return false, false
    case "save":
        if len(fields) != 2 {
            s.printf("Usage: save <path>\n")
            return false, false
        }
        if err := store.WriteFile(fields[1], domain.SnapshotOf(s.game)); err != nil {
            s.log.Warn("save", zap.String("path", fields[1]), zap.Error(err))
            s.printf("Could not save: %v\n", err)
            return false, false
        }
        s.printf("Game saved to %s.\n", fields[1])
        return false, false
    case "load":
        if len(fields) != 2 {
            s.printf("Usage: load <path>\n")
            return false, false
        }
        g, err := load(fields[1])
        if err != nil {
            s.log.Warn("load", zap.String("path", fields[1]), zap.Error(err))
            s.printf("Could not load: %v\n", err)
            return false, false
        }
        s.game = g
        s.printf("Game loaded from %s.\n", fields[1])
        return true, false
    }

    pos, err := domain.TranslateCommand(fields[0])
    if err != nil {
        s.printf("Player input did not match requirements. Please try again.\n")
        return false, false
    }
    mover := s.game.Turn()
    if !s.game.PlacePiece(pos) {
        s.printf("Input was not a valid move. Please try again.\n")
        return false, false
    }
    s.log.Debug("piece placed", zap.Stringer("color", mover), zap.Stringer("position", pos))
    s.printf("Valid move processed.\n")
    return true, false
}

func load(path string) (*domain.Game, error) {
    snap, err := store.ReadFile(path)
    if err != nil {
        return nil, err
    }
    return domain.FromSnapshot(snap)
}

func (s *Session) startReader() {
    s.lines = make(chan string)
    s.done = make(chan struct{})
    go func(lines chan<- string, done <-chan struct{}) {
        defer close(lines)
        for s.in.Scan() {
            select {
            case lines <- s.in.Text():
            case <-done:
                return
            }
        }
    }(s.lines, s.done)
}

// readLine waits for the next input line or for ctx to end.
func (s *Session) readLine(ctx context.Context) (string, error) {
    select {
    case <-ctx.Done():
        return "", ctx.Err()
    case line, ok := <-s.lines:
        if !ok {
            return "", ErrInputClosed
        }
        return line, nil
    }
}

func (s *Session) printTurn() {
    _ = render.Text(s.out, s.game, s.ShowMoves)
    s.printf("Input a placement command in the format <letter><number>, e.g. \"D3\".\n")
    s.printf("It is %s's turn (%s). Dark %d, Light %d.\n",
        name(s.game.Turn()), render.Glyph(s.game.Turn()), s.game.DarkCount(), s.game.LightCount())
}

func (s *Session) printEnd() {
    s.printf("The game is over. The final board was:\n")
    _ = render.Text(s.out, s.game, false)
    switch s.game.Victor() {
    case domain.OutcomeDark:
        s.printf("Dark wins! Congratulations!\n")
    case domain.OutcomeLight:
        s.printf("Light wins! Congratulations!\n")
    default:
        s.printf("It's a tie!\n")
    }
    s.printf("Final score: Dark %d, Light %d.\n", s.game.DarkCount(), s.game.LightCount())
}

func (s *Session) printf(format string, args ...any) {
    _, _ = fmt.Fprintf(s.out, format, args...)
}

func name(c domain.Color) string {
    if c == domain.Light {
        return "Light"
    }
    return "Dark"
}
