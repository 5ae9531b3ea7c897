package web

import (
    "bytes"
    "fmt"
    "html/template"

    "github.com/jaminalder/codex-othello/internal/app"
    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/jaminalder/codex-othello/internal/render"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "add": func(a, b int) int { return a + b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Othello</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
table.board{border-collapse:collapse;background:#227842}
table.board td{width:40px;height:40px;border:1px solid #124828;text-align:center;font-size:28px}
table.board th{width:40px;font-weight:normal}
td.last{background:#4e9e60}
td.dark{color:#151515}td.light{color:#f4f4f0}
td button{width:100%;height:100%;background:none;border:none;cursor:pointer;color:#0d3a20}
</style>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Othello</h1>
<form action="/game" method="post"><button>New game</button></form>
<h2>Import</h2>
<form action="/game/import" method="post">
  <textarea name="snapshot" rows="8" cols="60" placeholder='{"turn":"DARK","pieces":[...]}'></textarea>
  <button>Import snapshot</button>
</form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Othello</h1>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>
<form hx-post="/game/{{.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
  <input name="cmd" size="3" placeholder="d3"> <button>Move</button>
</form>
<form hx-post="/game/{{.ID}}/save" hx-target="#board" hx-swap="outerHTML" method="post"><button>Save</button></form>
<form hx-post="/game/{{.ID}}/restore" hx-target="#board" hx-swap="outerHTML" method="post"><button>Restore</button></form>
<p><a href="/game/{{.ID}}/snapshot">snapshot</a> · <a href="/game/{{.ID}}/board.png?moves=1">image</a></p>`))
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{if .Notice}}
  <div class="notice">{{.Notice}}</div>
  {{end}}
  <div class="status">
    {{if .Over}}
    <strong class="winner">{{.Victor}}</strong>
    {{else}}
    <span class="turn">{{.Turn}} to move</span>
    {{end}}
    <span class="score">Dark {{.Dark}} · Light {{.Light}}</span>
  </div>
  <table class="board">
    <tr><th></th>{{range .Letters}}<th>{{.}}</th>{{end}}</tr>
    {{range $r, $row := .Rows}}
    <tr>
      <th>{{add $r 1}}</th>
      {{range $row}}
      <td id="sq-{{.Name}}" class="{{.Class}}{{if .Last}} last{{end}}">
        {{if .Legal}}
        <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
          <input type="hidden" name="pos" value="{{.Pos}}">
          <button type="submit" title="{{.Name}}">·</button>
        </form>
        {{else}}{{.Glyph}}{{end}}
      </td>
      {{end}}
    </tr>
    {{end}}
  </table>
</div>
`

type cellView struct {
    Pos   int
    Name  string
    Class string
    Glyph string
    Legal bool
    Last  bool
}

type boardView struct {
    ID      string
    Turn    string
    Dark    int
    Light   int
    Over    bool
    Victor  string
    Notice  string
    Error   string
    Letters []string
    Rows    [][]cellView
}

func colorName(c domain.Color) string {
    if c == domain.Light {
        return "Light"
    }
    return "Dark"
}

func victorText(o domain.Outcome) string {
    switch o {
    case domain.OutcomeDark:
        return "Dark wins"
    case domain.OutcomeLight:
        return "Light wins"
    default:
        return "Tie game"
    }
}

func newBoardView(gs app.GameState, errMsg, notice string) boardView {
    g := gs.Game
    v := boardView{
        ID:     gs.ID,
        Turn:   colorName(g.Turn()),
        Dark:   g.DarkCount(),
        Light:  g.LightCount(),
        Over:   g.IsOver(),
        Notice: notice,
        Error:  errMsg,
    }
    if v.Over {
        v.Victor = victorText(g.Victor())
    } else if gs.LastPasses == 1 && notice == "" {
        v.Notice = fmt.Sprintf("%s has no legal moves and passes", colorName(g.Turn().Opponent()))
    }
    for c := 0; c < domain.Side; c++ {
        v.Letters = append(v.Letters, string(rune('A'+c)))
    }
    v.Rows = make([][]cellView, domain.Side)
    for r := 0; r < domain.Side; r++ {
        row := make([]cellView, domain.Side)
        for c := 0; c < domain.Side; c++ {
            p := domain.At(r, c)
            cv := cellView{Pos: int(p), Name: p.String(), Class: "empty", Last: p == gs.LastMove}
            if pc, ok := g.PieceAt(p); ok {
                cv.Glyph = render.Glyph(pc.Color)
                cv.Class = "light"
                if pc.Color == domain.Dark {
                    cv.Class = "dark"
                }
            } else if !v.Over && g.IsLegal(p) {
                cv.Legal = true
            }
            row[c] = cv
        }
        v.Rows[r] = row
    }
    return v
}
