package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func organicConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Strategy = Organic
	cfg.Width, cfg.Height = w, h
	return cfg
}

func TestOrganicSingleItemFirstAttempt(t *testing.T) {
	cfg := organicConfig(100, 100)
	cfg.Prescale = false
	cfg.Protected = 1
	cfg.MaxRotation = 0
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, NewItem("only", 100, 100))

	for seed := range uint64(20) {
		p, ratio, attempts := o.place(c.scaled()[0], nil, testRNG(seed))
		assert.Equal(t, 1, attempts)
		assert.Zero(t, ratio)
		assert.Equal(t, 50.0, p.cx)
		assert.Equal(t, 50.0, p.cy)
		assert.Zero(t, p.angle)
	}

	cand, err := o.layout(c.scaled(), testRNG(1))
	require.NoError(t, err)
	require.Len(t, cand.Placements, 1)
	assert.Equal(t, NewRect(0, 0, 100, 100), cand.Placements[0].Rect)
	assert.Empty(t, cand.Degraded)
	assert.Zero(t, cand.Score)
}

func TestOrganicSingleItemAnyCanvas(t *testing.T) {
	cfg := organicConfig(640, 480)
	cfg.Prescale = false
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, NewItem("only", 320, 200))

	for seed := range uint64(20) {
		_, ratio, attempts := o.place(c.scaled()[0], nil, testRNG(seed))
		assert.Equal(t, 1, attempts)
		assert.Zero(t, ratio)
	}
}

func TestOrganicTwoSmallItemsFindClearSpot(t *testing.T) {
	// Cores are 70x70 each: 9800 of 1,000,000 px.
	cfg := organicConfig(1000, 1000)
	cfg.Prescale = false
	cfg.MaxAttempts = 500
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, NewItem("a", 100, 100), NewItem("b", 100, 100))

	const runs = 50
	clear := 0
	for seed := range uint64(runs) {
		cand, err := o.layout(c.scaled(), testRNG(seed))
		require.NoError(t, err)
		if len(cand.Degraded) == 0 {
			clear++
		}
	}
	assert.GreaterOrEqual(t, float64(clear)/runs, 0.95)
}

func TestOrganicPlacementsInsideCanvas(t *testing.T) {
	for _, style := range []Style{StyleSimple, StyleOrganic, StyleChaotic} {
		t.Run(style.String(), func(t *testing.T) {
			cfg := organicConfig(1600, 900)
			cfg.Style = style
			cfg.MaxRotation = 8
			cfg.MaxAttempts = 200
			o := newOrganicLayout(&cfg)
			c := mustCatalog(t, mixedItems(12)...)
			canvas := NewRect(0, 0, cfg.Width, cfg.Height)

			cand, err := o.layout(c.scaled(), testRNG(5))
			require.NoError(t, err)
			require.Len(t, cand.Placements, 12)

			seen := map[int]bool{}
			for _, p := range cand.Placements {
				assert.True(t, canvas.ContainsRect(p.Rect), "%v outside canvas", p.Rect)
				assert.GreaterOrEqual(t, p.Width, MinItemSize)
				assert.GreaterOrEqual(t, p.Height, MinItemSize)
				limit := cfg.MaxRotation * style.Preset().Rotation
				assert.LessOrEqual(t, p.Rotation, limit)
				assert.GreaterOrEqual(t, p.Rotation, -limit)
				seen[p.Index] = true
			}
			assert.Len(t, seen, 12, "every item is placed once")
		})
	}
}

func TestOrganicLargestFirst(t *testing.T) {
	cfg := organicConfig(1000, 1000)
	cfg.Prescale = false
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t,
		NewItem("small", 50, 50),
		NewItem("large", 300, 200),
		NewItem("medium", 100, 100),
	)

	cand, err := o.layout(c.scaled(), testRNG(2))
	require.NoError(t, err)
	ids := []string{}
	for _, p := range cand.Placements {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"large", "medium", "small"}, ids)
}

func TestOrganicPrescaleFillsCanvas(t *testing.T) {
	cfg := organicConfig(1000, 1000)
	cfg.Style = StyleSimple
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, NewItem("a", 10, 10), NewItem("b", 4000, 4000))

	sized, err := o.resize(c.scaled(), testRNG(4))
	require.NoError(t, err)
	for _, it := range sized {
		// Baseline is sqrt(500000) ~ 707 px, times a factor in [0.85, 0.95].
		assert.InDelta(t, 636, it.w, 36)
		assert.Equal(t, it.w, it.h)
	}
}

func TestOrganicPrescaleCapsToCanvas(t *testing.T) {
	cfg := organicConfig(400, 300)
	cfg.Style = StyleChaotic
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, NewItem("wide", 2000, 500))

	for seed := range uint64(20) {
		sized, err := o.resize(c.scaled(), testRNG(seed))
		require.NoError(t, err)
		assert.True(t, sized[0].size().Fits(cfg.Canvas()), "%v exceeds canvas", sized[0].size())
	}
}

func TestOrganicInfeasibleItem(t *testing.T) {
	cfg := organicConfig(100, 100)
	cfg.Prescale = false
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, NewItem("fits", 50, 50), NewItem("too-wide", 101, 20))

	_, err := o.layout(c.scaled(), testRNG(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfeasibleItem))
	assert.Contains(t, err.Error(), "too-wide")
}

func TestOrganicFallbackIsBestSeen(t *testing.T) {
	// Two canvas-sized items can never avoid each other, so the second one
	// must fall back to its least-overlapping sample.
	cfg := organicConfig(200, 100)
	cfg.Prescale = false
	cfg.MaxRotation = 0
	cfg.MaxAttempts = 50
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, NewItem("a", 150, 100), NewItem("b", 150, 100))

	items := c.scaled()
	first, _, _ := o.place(items[0], nil, testRNG(1))
	placed := []organicItem{first}

	got, ratio, attempts := o.place(items[1], placed, testRNG(2))
	assert.Equal(t, cfg.MaxAttempts, attempts)
	assert.Greater(t, ratio, 0.0)
	assert.InDelta(t, OverlapRatio(got.core, first.core), ratio, 1e-9, "reported ratio belongs to the returned sample")

	// Replay the same stream and check no sample beat the returned one.
	rng := testRNG(2)
	for range cfg.MaxAttempts {
		cx := 75 + rng.Float64()*50
		cy := 50 + rng.Float64()*0
		core := o.coreAt(cx, cy, 150, 100, 0)
		assert.GreaterOrEqual(t, OverlapRatio(core, first.core)+1e-12, ratio)
	}

	cand, err := o.layout(items, testRNG(3))
	require.NoError(t, err)
	require.Len(t, cand.Degraded, 1)
	assert.Equal(t, cfg.MaxAttempts, cand.Degraded[0].Attempts)
}

func TestOrganicGapFillNeverShrinks(t *testing.T) {
	cfg := organicConfig(1200, 800)
	cfg.MaxAttempts = 100
	o := newOrganicLayout(&cfg)
	c := mustCatalog(t, mixedItems(6)...)

	sized, err := o.resize(c.scaled(), testRNG(8))
	require.NoError(t, err)
	sortScaled(sized, SortArea)

	rng := testRNG(9)
	var placed []organicItem
	for _, it := range sized {
		p, _, _ := o.place(it, placed, rng)
		placed = append(placed, p)
	}
	before := make([]Size, len(placed))
	for i, p := range placed {
		before[i] = p.size()
	}

	o.fillGaps(placed)
	for i, p := range placed {
		assert.GreaterOrEqual(t, p.w, before[i].Width)
		assert.GreaterOrEqual(t, p.h, before[i].Height)
		assert.True(t, o.inside(p.cx, p.cy, p.w, p.h))
		if p.w > before[i].Width {
			assert.True(t, o.clear(p.core, placed, i), "grown item %d breaks the overlap ceiling", i)
		}
	}
}

func TestOrganicGapFillGrowsIsolatedItem(t *testing.T) {
	cfg := organicConfig(1000, 1000)
	cfg.MaxRotation = 0
	o := newOrganicLayout(&cfg)
	it := scaledItem{item: NewItem("lonely", 100, 100), w: 100, h: 100}
	placed := []organicItem{{scaledItem: it, cx: 500, cy: 500, core: o.coreAt(500, 500, 100, 100, 0)}}

	o.fillGaps(placed)
	assert.Equal(t, 108, placed[0].w, "largest step wins")
	assert.Equal(t, 108, placed[0].h)
}
