package glyph

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/oliverbestmann/glyphdepth/glm"
)

// initial side length of the glyph atlas
const initialAtlasSize = 256

// Processor owns the glyph queue. It turns queued sections into quads,
// rasterizing missing glyphs into its atlas on the way.
type Processor struct {
	font  *Font
	cache *GlyphCache
	queue []Section
	quads []Quad
}

func NewProcessor(font *Font) *Processor {
	return &Processor{
		font:  font,
		cache: NewGlyphCache(font, initialAtlasSize),
	}
}

// Queue appends a section to the queue. No layout work happens until the
// queue is processed.
func (p *Processor) Queue(section Section) {
	p.queue = append(p.queue, section)
}

// Len returns the number of sections currently queued.
func (p *Processor) Len() int {
	return len(p.queue)
}

func (p *Processor) Atlas() *Atlas {
	return p.cache.Atlas()
}

// Process lays out all queued sections and returns their quads in queue order.
// The queue is empty afterward, even if an error is returned. The returned
// slice is reused by the next call to Process.
func (p *Processor) Process() ([]Quad, error) {
	defer p.reset()

	var purged bool

	for {
		quads, err := p.process()
		if !errors.Is(err, ErrAtlasFull) {
			return quads, err
		}

		// glyphs did not fit. Make room and lay out everything again, as
		// the atlas coordinates of previous glyphs are now invalid.
		if p.cache.Grow() {
			slog.Debug("Grow glyph atlas", slog.Int("size", p.cache.Atlas().Size()))
			continue
		}

		if purged {
			return nil, fmt.Errorf("queued glyphs exceed atlas of size %d: %w", MaxAtlasSize, err)
		}

		slog.Debug("Purge glyph atlas", slog.Int("glyphs", p.cache.Len()))
		p.cache.Purge()
		purged = true
	}
}

func (p *Processor) process() ([]Quad, error) {
	p.quads = p.quads[:0]

	atlasSize := float32(p.cache.Atlas().Size())

	for _, section := range p.queue {
		glyphs, err := p.font.Layout(section)
		if err != nil {
			return nil, fmt.Errorf("layout section: %w", err)
		}

		ppem := p.font.ppem(section.Scale)
		depth := DeviceDepth(section.depthKey())
		color := section.Color.ToVec()

		for _, glyph := range glyphs {
			cached, err := p.cache.Get(glyph.Rune, ppem)
			if err != nil {
				return nil, err
			}

			if !cached.visible {
				continue
			}

			// snap the pen position to the pixel grid, glyphs are rasterized at
			// an integer pen position
			x := float32(math.Round(float64(glyph.Origin[0])))
			y := float32(math.Round(float64(glyph.Origin[1])))

			bounds := cached.bounds
			region := cached.region

			p.quads = append(p.quads, Quad{
				LeftTop: glm.Vec3f{
					x + float32(bounds.Min.X),
					y + float32(bounds.Min.Y),
					depth,
				},
				RightBottom: glm.Vec2f{
					x + float32(bounds.Max.X),
					y + float32(bounds.Max.Y),
				},
				TexLeftTop: glm.Vec2f{
					float32(region.Min.X) / atlasSize,
					float32(region.Min.Y) / atlasSize,
				},
				TexRightBottom: glm.Vec2f{
					float32(region.Max.X) / atlasSize,
					float32(region.Max.Y) / atlasSize,
				},
				Color: color,
			})
		}
	}

	return p.quads, nil
}

func (p *Processor) reset() {
	clear(p.queue)
	p.queue = p.queue[:0]
}
