package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collage/layout"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	bg    = color.NRGBA{0x22, 0x22, 0x22, 255}
)

func writeImage(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, imaging.Save(imaging.New(w, h, c), path))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "transparent", want: color.NRGBA{}},
		{in: "#222222", want: bg},
		{in: "#f00", want: red},
		{in: "#00FF00", want: green},
		{in: "0, 0, 255", want: blue},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "1,2", wantErr: true},
		{in: "1,2,300", wantErr: true},
		{in: "red", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := parseColor(formatColor(got))
			require.NoError(t, err)
			assert.Equal(t, got, back)
		})
	}
}

func TestLayoutConfigFromOptions(t *testing.T) {
	opts := defaultOptions()
	cfg, err := opts.layoutConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultConfig().Width, cfg.Width)
	assert.Equal(t, bg, cfg.Background)
	assert.Equal(t, layout.Rows, cfg.Strategy)

	opts.Strategy = "organic"
	opts.Style = "chaotic"
	opts.Background = "transparent"
	cfg, err = opts.layoutConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, layout.Organic, cfg.Strategy)
	assert.Equal(t, layout.StyleChaotic, cfg.Style)
	assert.Zero(t, cfg.Background.A)

	opts.Jitter = 2
	_, err = opts.layoutConfig(nil)
	assert.True(t, errors.Is(err, layout.ErrInvalidConfig))
}

func TestApplyConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
width = 100
height = 300
strategy = "organic"
max-rotation = 8.5
prescale = false
`), 0644))

	app := &App{logger: newLogger(io.Discard, log.InfoLevel)}
	cmd := app.makeCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--width", "800"}))
	require.NoError(t, applyConfigFile(path, cmd.Flags()))

	get := func(name string) string { return cmd.Flags().Lookup(name).Value.String() }
	assert.Equal(t, "800", get("width"), "command line wins")
	assert.Equal(t, "300", get("height"))
	assert.Equal(t, "organic", get("strategy"))
	assert.Equal(t, "8.5", get("max-rotation"))
	assert.Equal(t, "false", get("prescale"))

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("colour = \"red\"\n"), 0644))
	err := applyConfigFile(bad, app.makeCommand().Flags())
	assert.ErrorContains(t, err, "unknown key")
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a10.png", "a2.png", "b.jpeg"} {
		writeImage(t, filepath.Join(dir, name), 4, 4, red)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	writeImage(t, filepath.Join(dir, "sub", "c.png"), 4, 4, red)

	paths, err := listImageFiles(dir, true)
	require.NoError(t, err)
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"a2.png", "a10.png", "b.jpeg"}, names)

	_, err = listImageFiles(filepath.Join(dir, "missing"), true)
	assert.Error(t, err)
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, sz := range []image.Point{{30, 20}, {10, 40}, {16, 16}} {
		p := filepath.Join(dir, string(rune('a'+i))+".png")
		writeImage(t, p, sz.X, sz.Y, blue)
		paths = append(paths, p)
	}

	sources, err := loadImages(paths)
	require.NoError(t, err)
	items := sourceItems(sources)
	require.Len(t, items, 3)
	assert.Equal(t, layout.NewItem("a.png", 30, 20), items[0])
	assert.Equal(t, layout.NewItem("b.png", 10, 40), items[1])

	_, err = loadImages(append(paths, filepath.Join(dir, "nope.png")))
	assert.ErrorContains(t, err, "nope.png")
}

func TestCreateCollageImage(t *testing.T) {
	images := []image.Image{
		imaging.New(40, 20, red),
		imaging.New(40, 20, green),
		imaging.New(20, 20, blue),
	}
	placements := []layout.Placement{
		{ID: "red", Index: 0, Rect: layout.NewRect(0, 0, 40, 20)},
		{ID: "green", Index: 1, Rect: layout.NewRect(20, 0, 40, 20)},
		{ID: "blue", Index: 2, Rect: layout.NewRect(70, 25, 20, 20)},
	}

	img, err := CreateCollageImage(context.Background(), 100, 50, bg, placements, images)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), img.Bounds())
	assert.Equal(t, red, img.NRGBAAt(10, 10))
	assert.Equal(t, green, img.NRGBAAt(30, 10), "later placements cover earlier ones")
	assert.Equal(t, blue, img.NRGBAAt(80, 35))
	assert.Equal(t, bg, img.NRGBAAt(5, 45))
}

func TestCreateCollageImageRotated(t *testing.T) {
	images := []image.Image{imaging.New(40, 20, red)}
	placements := []layout.Placement{
		{ID: "turned", Index: 0, Rect: layout.NewRect(30, 40, 40, 20), Rotation: 90},
	}

	img, err := CreateCollageImage(context.Background(), 100, 100, bg, placements, images)
	require.NoError(t, err)
	// Turned upright around the same centre: 20x40 at (40, 30).
	assert.Equal(t, red, img.NRGBAAt(50, 35))
	assert.Equal(t, red, img.NRGBAAt(50, 65))
	assert.Equal(t, bg, img.NRGBAAt(35, 50))
	assert.Equal(t, bg, img.NRGBAAt(65, 50))
}

func TestCreateCollageImageErrors(t *testing.T) {
	images := []image.Image{imaging.New(10, 10, red)}
	_, err := CreateCollageImage(context.Background(), 50, 50, bg,
		[]layout.Placement{{ID: "ghost", Index: 3, Rect: layout.NewRect(0, 0, 10, 10)}}, images)
	assert.ErrorContains(t, err, "ghost")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CreateCollageImage(ctx, 50, 50, bg,
		[]layout.Placement{{ID: "a", Index: 0, Rect: layout.NewRect(0, 0, 10, 10)}}, images)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		{Path: filepath.Join(dir, "img", "a.png")},
		{Path: filepath.Join(dir, "img", "b.png")},
	}
	cfg := layout.DefaultConfig()
	cfg.Width, cfg.Height = 300, 200
	res := &layout.Result{
		Candidate: layout.Candidate{
			Placements: []layout.Placement{
				{ID: "a.png", Index: 0, Rect: layout.NewRect(5, 6, 100, 80), Rotation: 3.5},
				{ID: "b.png", Index: 1, Rect: layout.NewRect(120, 10, 90, 90), Rotation: -2},
			},
			Score: 43900,
			Rows:  1,
		},
		Strategy: layout.Rows,
		Seed:     99,
	}

	for _, name := range []string{"layout.json", "layout.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "out", name)
			require.NoError(t, writeManifest(newManifest(path, &cfg, res, sources), path))

			m, err := readManifest(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"../img/a.png", "../img/b.png"}, m.Files)
			assert.Equal(t, res.Placements, m.Placements)
			assert.Equal(t, "#222222", m.Background)
			assert.Equal(t, "rows", m.Strategy)
			assert.Equal(t, uint64(99), m.Seed)
			assert.Equal(t, 300, m.Canvas.W)
			assert.Equal(t, []string{sources[0].Path, sources[1].Path}, m.sourcePaths(path))
		})
	}
}

func TestReadManifestRejectsBadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "canvas": {"w": 10, "h": 10},
  "files": ["a.png"],
  "placements": [{"id": "x", "index": 2, "x": 0, "y": 0, "width": 5, "height": 5}]
}`), 0644))

	_, err := readManifest(path)
	assert.ErrorContains(t, err, "refers to file 2")
}

func TestRunMakeAndRender(t *testing.T) {
	for _, strategy := range []string{"rows", "organic"} {
		t.Run(strategy, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "in")
			writeImage(t, filepath.Join(in, "1.png"), 60, 40, red)
			writeImage(t, filepath.Join(in, "2.png"), 40, 60, green)
			writeImage(t, filepath.Join(in, "3.jpg"), 50, 50, blue)

			out := filepath.Join(dir, "collage.png")
			manifest := filepath.Join(dir, "layout.yaml")
			err := run(context.Background(), []string{
				"make", "-i", in, "-o", out, "--manifest", manifest,
				"-W", "200", "-H", "100", "--seed", "3", "--iterations", "2",
				"--strategy", strategy, "--attempts", "50",
			}, io.Discard)
			require.NoError(t, err)

			made, err := imaging.Open(out)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 200, 100), made.Bounds())

			m, err := readManifest(manifest)
			require.NoError(t, err)
			assert.Len(t, m.Placements, 3)
			assert.Equal(t, uint64(3), m.Seed)
			assert.Equal(t, strategy, m.Strategy)

			again := filepath.Join(dir, "again.png")
			require.NoError(t, run(context.Background(), []string{"render", manifest, "-o", again}, io.Discard))
			rendered, err := imaging.Open(again)
			require.NoError(t, err)
			assert.Equal(t, imaging.Clone(made).Pix, imaging.Clone(rendered).Pix, "render reproduces the collage")
		})
	}
}

func TestRunMakeEmptyDir(t *testing.T) {
	dir := t.TempDir()
	err := run(context.Background(), []string{"make", "-i", dir, "-o", filepath.Join(dir, "c.png")}, io.Discard)
	assert.ErrorIs(t, err, layout.ErrEmptyInput)
}
