// Command termdemo renders a sample terminal screen with the software
// device and saves it as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/backend"
	"github.com/gogpu/termatlas/backend/software"
	"github.com/gogpu/termatlas/render"
	"github.com/gogpu/termatlas/text"
)

var sample = []string{
	"$ ls -l /usr/share/fonts",
	"total 12",
	"drwxr-xr-x 2 root root 4096 Oct  1 09:12 truetype",
	"drwxr-xr-x 4 root root 4096 Oct  1 09:12 opentype",
	"",
	"box: ┌──────┐  shade: ░▒▓█",
	"     │ cell │  wide: 漢字かな",
	"     └──────┘",
	"$ ",
}

var palette = []uint32{0xffd0d0d0, 0xff80c0ff, 0xff90e090, 0xffffd070}

func main() {
	var (
		cols    = flag.Int("cols", 80, "columns")
		rows    = flag.Int("rows", 24, "rows")
		size    = flag.Float64("size", 16, "font size in pixels per em")
		output  = flag.String("output", "termdemo.png", "output file")
		device  = flag.String("device", backend.NameSoftware, "device name")
		dumpDir = flag.String("dump", "", "write frame dumps to this directory")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		termatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	dev, err := backend.Open(*device)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	sw, ok := dev.(*software.Device)
	if !ok {
		log.Fatalf("Device %q has no readable offscreen target", *device)
	}
	defer sw.Close()

	face := text.DefaultFace()
	font, err := text.NewFontSettings(face, float32(*size), termatlas.AntialiasingGrayscale, 1)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	shaper, err := text.NewShaper(font, face)
	if err != nil {
		log.Fatalf("Failed to create shaper: %v", err)
	}

	p := &termatlas.Payload{
		Device: dev,
		Settings: &termatlas.Settings{
			Generation: 1,
			TargetSize: image.Pt(*cols*font.CellSize.X, *rows*font.CellSize.Y),
			CellCount:  image.Pt(*cols, *rows),
			Font:       font,
			Cursor:     &termatlas.CursorSettings{Type: termatlas.CursorFullBox, Color: termatlas.CursorInvert},
			Misc: &termatlas.MiscSettings{
				Generation:      1,
				BackgroundColor: 0xff201810,
				SelectionColor:  0x60ffa040,
			},
		},
	}
	for i, line := range sample {
		if i >= *rows {
			break
		}
		shaper.SetDefaultColor(palette[i%len(palette)])
		row, err := shaper.ShapeLine([]rune(line), nil)
		if err != nil {
			log.Fatalf("Failed to shape line %d: %v", i, err)
		}
		p.Rows = append(p.Rows, row)
	}
	if len(p.Rows) > 0 {
		p.Rows[0].GridLines = []termatlas.GridLineRange{{Lines: termatlas.GridUnderline, Color: 0xff80c0ff, From: 2, To: 4}}
	}
	if len(p.Rows) > 2 {
		p.Rows[2].SelectionFrom, p.Rows[2].SelectionTo = 0, 10
	}
	if last := len(p.Rows) - 1; last >= 0 {
		p.CursorRect = image.Rect(2, last, 3, last+1)
	}

	opts := []render.Option{}
	if *dumpDir != "" {
		opts = append(opts, render.WithDumpDir(*dumpDir))
	}
	e, err := render.New(opts...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer e.ReleaseResources()

	if err := e.Render(p); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := savePNG(*output, sw.Offscreen()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	s := e.Stats()
	termatlas.Logger().Info("frame stats",
		"glyphs", s.GlyphMisses, "draws", s.DrawCalls, "instances", s.Instances)
	log.Printf("Demo saved to %s (%dx%d)\n", *output, p.Settings.TargetSize.X, p.Settings.TargetSize.Y)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, img)
}
