package render

import (
    "bytes"
    "context"
    "fmt"
    "image"
    "image/color"
    "image/draw"
    "image/png"
    "strconv"
    "sync"

    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/srwiley/oksvg"
    "github.com/srwiley/rasterx"
    "golang.org/x/image/font"
    "golang.org/x/image/font/basicfont"
    "golang.org/x/image/math/fixed"
)

// Options tune a PNG rendering.
type Options struct {
    // ShowMoves marks the legal targets for the side to move.
    ShowMoves bool
    // Highlight tints one square, typically the last placement.
    Highlight *domain.Position
}

// BoardRenderer renders a game as a PNG image.
type BoardRenderer interface {
    RenderPNG(ctx context.Context, g *domain.Game, opts Options) ([]byte, error)
}

const (
    squareSize = 56
    margin     = 24
    boardSize  = squareSize * domain.Side
    imageSize  = boardSize + 2*margin
)

var (
    backgroundColor = color.NRGBA{R: 32, G: 40, B: 36, A: 255}
    gridColor       = color.NRGBA{R: 18, G: 72, B: 40, A: 255}
    squareColor     = color.NRGBA{R: 34, G: 120, B: 66, A: 255}
    highlightColor  = color.NRGBA{R: 78, G: 158, B: 96, A: 255}
    labelColor      = color.NRGBA{R: 220, G: 226, B: 222, A: 255}
)

type discKind uint8

const (
    darkDisc discKind = iota
    lightDisc
    moveDot
)

var discSVG = map[discKind]string{
    darkDisc:  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="40" fill="#151515" stroke="#000000" stroke-width="3"/></svg>`,
    lightDisc: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="40" fill="#f4f4f0" stroke="#9a9a94" stroke-width="3"/></svg>`,
    moveDot:   `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="12" fill="#0d3a20"/></svg>`,
}

type discCacheKey struct {
    kind discKind
    size int
}

var (
    discCache   = map[discCacheKey]image.Image{}
    discCacheMu sync.RWMutex
)

type pngRenderer struct{}

// NewPNGRenderer returns the default renderer.
func NewPNGRenderer() BoardRenderer { return pngRenderer{} }

// PNG renders g with the default renderer.
func PNG(ctx context.Context, g *domain.Game, opts Options) ([]byte, error) {
    return pngRenderer{}.RenderPNG(ctx, g, opts)
}

func (pngRenderer) RenderPNG(ctx context.Context, g *domain.Game, opts Options) ([]byte, error) {
    if g == nil {
        return nil, fmt.Errorf("game is nil")
    }
    if err := ctx.Err(); err != nil {
        return nil, err
    }

    img := image.NewRGBA(image.Rect(0, 0, imageSize, imageSize))
    draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
    origin := image.Pt(margin, margin)

    drawSquares(img, origin, opts.Highlight)
    if err := drawDiscs(img, g, origin, opts.ShowMoves); err != nil {
        return nil, err
    }
    drawCoordinates(img, origin)

    if err := ctx.Err(); err != nil {
        return nil, err
    }
    var buf bytes.Buffer
    if err := png.Encode(&buf, img); err != nil {
        return nil, fmt.Errorf("encode png: %w", err)
    }
    return buf.Bytes(), nil
}

func squareRect(origin image.Point, p domain.Position) image.Rectangle {
    x := origin.X + p.Col()*squareSize
    y := origin.Y + p.Row()*squareSize
    return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquares(dst draw.Image, origin image.Point, highlight *domain.Position) {
    draw.Draw(dst, image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize), image.NewUniform(gridColor), image.Point{}, draw.Src)
    for p := domain.Position(0); p < domain.Squares; p++ {
        clr := squareColor
        if highlight != nil && *highlight == p {
            clr = highlightColor
        }
        r := squareRect(origin, p).Inset(1)
        draw.Draw(dst, r, image.NewUniform(clr), image.Point{}, draw.Src)
    }
}

func drawDiscs(dst draw.Image, g *domain.Game, origin image.Point, showMoves bool) error {
    for _, pc := range g.Pieces() {
        kind := darkDisc
        if pc.Color == domain.Light {
            kind = lightDisc
        }
        if err := drawDisc(dst, kind, squareRect(origin, pc.Position())); err != nil {
            return err
        }
    }
    if !showMoves {
        return nil
    }
    for _, p := range g.Moves() {
        if err := drawDisc(dst, moveDot, squareRect(origin, p)); err != nil {
            return err
        }
    }
    return nil
}

func drawDisc(dst draw.Image, kind discKind, rect image.Rectangle) error {
    disc, err := discImage(kind, rect.Dx())
    if err != nil {
        return err
    }
    draw.Draw(dst, rect, disc, image.Point{}, draw.Over)
    return nil
}

func discImage(kind discKind, size int) (image.Image, error) {
    key := discCacheKey{kind: kind, size: size}

    discCacheMu.RLock()
    if img, ok := discCache[key]; ok {
        discCacheMu.RUnlock()
        return img, nil
    }
    discCacheMu.RUnlock()

    icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(discSVG[kind])))
    if err != nil {
        return nil, fmt.Errorf("parse disc svg: %w", err)
    }
    icon.SetTarget(0, 0, float64(size), float64(size))

    img := image.NewRGBA(image.Rect(0, 0, size, size))
    scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
    raster := rasterx.NewDasher(size, size, scanner)
    icon.Draw(raster, 1.0)

    discCacheMu.Lock()
    discCache[key] = img
    discCacheMu.Unlock()
    return img, nil
}

func drawCoordinates(dst draw.Image, origin image.Point) {
    face := basicfont.Face7x13
    drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor), Face: face}
    ascent := face.Metrics().Ascent.Ceil()
    for i := 0; i < domain.Side; i++ {
        letter := string(rune('A' + i))
        cx := origin.X + i*squareSize + squareSize/2
        drawCentered(drawer, letter, cx, origin.Y/2+ascent/2)
        drawCentered(drawer, letter, cx, origin.Y+boardSize+margin/2+ascent/2)

        number := strconv.Itoa(i + 1)
        cy := origin.Y + i*squareSize + squareSize/2 + ascent/2
        drawCentered(drawer, number, origin.X/2, cy)
        drawCentered(drawer, number, origin.X+boardSize+margin/2, cy)
    }
}

func drawCentered(drawer *font.Drawer, text string, centerX, baseline int) {
    width := drawer.MeasureString(text).Ceil()
    drawer.Dot = fixed.P(centerX-width/2, baseline)
    drawer.DrawString(text)
}
