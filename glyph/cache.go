package glyph

import (
	"fmt"
	"image"
	"image/draw"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/math/fixed"
)

type glyphKey struct {
	rune rune
	ppem fixed.Int26_6
}

type cachedGlyph struct {
	// region within the atlas
	region image.Rectangle

	// pixel bounds relative to the pen position on the baseline
	bounds image.Rectangle

	// false for glyphs without any coverage, e.g. spaces
	visible bool
}

// maximum number of glyphs tracked by a GlyphCache. Evicted glyphs keep
// their atlas space until the next Purge and are rasterized again on use.
const maxCachedGlyphs = 4096

// GlyphCache rasterizes glyphs on first use and keeps their coverage in an Atlas.
type GlyphCache struct {
	font   *Font
	atlas  *Atlas
	glyphs *lru.Cache[glyphKey, cachedGlyph]
}

func NewGlyphCache(font *Font, atlasSize int) *GlyphCache {
	glyphs, _ := lru.New[glyphKey, cachedGlyph](maxCachedGlyphs)

	return &GlyphCache{
		font:   font,
		atlas:  NewAtlas(atlasSize),
		glyphs: glyphs,
	}
}

func (c *GlyphCache) Atlas() *Atlas {
	return c.atlas
}

func (c *GlyphCache) Len() int {
	return c.glyphs.Len()
}

// Purge drops all cached glyphs and clears the atlas.
func (c *GlyphCache) Purge() {
	c.glyphs.Purge()
	c.atlas.Clear()
}

// Grow enlarges the atlas. All cached glyphs are dropped.
func (c *GlyphCache) Grow() bool {
	if !c.atlas.Grow() {
		return false
	}

	c.glyphs.Purge()
	return true
}

// Get returns the cached glyph, rasterizing it if required.
// Returns ErrAtlasFull if the glyph does not fit into the atlas.
func (c *GlyphCache) Get(r rune, ppem fixed.Int26_6) (cachedGlyph, error) {
	key := glyphKey{rune: r, ppem: ppem}

	if cached, ok := c.glyphs.Get(key); ok {
		return cached, nil
	}

	face, err := c.font.face(ppem)
	if err != nil {
		return cachedGlyph{}, err
	}

	bounds, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		// fall back to the replacement character
		bounds, mask, maskp, _, ok = face.Glyph(fixed.Point26_6{}, unicode.ReplacementChar)
	}

	if !ok || bounds.Empty() {
		cached := cachedGlyph{}
		c.glyphs.Add(key, cached)
		return cached, nil
	}

	coverage := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(coverage, coverage.Rect, mask, maskp, draw.Src)

	region, err := c.atlas.Insert(coverage)
	if err != nil {
		return cachedGlyph{}, fmt.Errorf("insert glyph %q: %w", r, err)
	}

	cached := cachedGlyph{
		region:  region,
		bounds:  bounds,
		visible: true,
	}

	c.glyphs.Add(key, cached)

	return cached, nil
}
