package glyph

import (
	"errors"
	"image"
	"image/draw"
)

var ErrAtlasFull = errors.New("atlas full")

// MaxAtlasSize limits the side length of the glyph atlas in pixels.
const MaxAtlasSize = 4096

const atlasPadding = 1

type shelf struct {
	y, height int
	x         int
}

// Atlas packs coverage bitmaps into a single alpha image using rows of
// shelves. Regions are never freed individually, the atlas is cleared
// as a whole once it runs full.
type Atlas struct {
	image  *image.Alpha
	shelfs []shelf

	// region that was modified since the last call to TakeDirty
	dirty image.Rectangle
}

func NewAtlas(size int) *Atlas {
	return &Atlas{
		image: image.NewAlpha(image.Rect(0, 0, size, size)),
	}
}

func (a *Atlas) Size() int {
	return a.image.Rect.Dx()
}

func (a *Atlas) Image() *image.Alpha {
	return a.image
}

// Insert copies the coverage bitmap into the atlas and returns
// the region it occupies.
func (a *Atlas) Insert(src *image.Alpha) (image.Rectangle, error) {
	width, height := src.Rect.Dx(), src.Rect.Dy()

	region, ok := a.allocate(width, height)
	if !ok {
		return image.Rectangle{}, ErrAtlasFull
	}

	draw.Draw(a.image, region, src, src.Rect.Min, draw.Src)
	a.dirty = a.dirty.Union(region)

	return region, nil
}

func (a *Atlas) allocate(width, height int) (image.Rectangle, bool) {
	size := a.Size()

	paddedWidth := width + atlasPadding
	paddedHeight := height + atlasPadding

	if paddedWidth > size || paddedHeight > size {
		return image.Rectangle{}, false
	}

	// find the best fitting shelf with enough room left
	best := -1
	for idx, sh := range a.shelfs {
		if sh.height < paddedHeight || sh.x+paddedWidth > size {
			continue
		}

		if best < 0 || sh.height < a.shelfs[best].height {
			best = idx
		}
	}

	if best < 0 {
		top := 0
		if len(a.shelfs) > 0 {
			last := a.shelfs[len(a.shelfs)-1]
			top = last.y + last.height
		}

		if top+paddedHeight > size {
			return image.Rectangle{}, false
		}

		a.shelfs = append(a.shelfs, shelf{y: top, height: paddedHeight})
		best = len(a.shelfs) - 1
	}

	sh := &a.shelfs[best]
	region := image.Rect(sh.x, sh.y, sh.x+width, sh.y+height)
	sh.x += paddedWidth

	return region, true
}

// Clear drops all regions. The image is zeroed so that stale coverage
// does not bleed into newly allocated padding.
func (a *Atlas) Clear() {
	clear(a.image.Pix)
	a.shelfs = a.shelfs[:0]
	a.dirty = a.image.Rect
}

// Grow doubles the atlas size up to MaxAtlasSize. All regions are dropped.
// Returns false if the atlas is already at its maximum size.
func (a *Atlas) Grow() bool {
	size := a.Size()
	if size >= MaxAtlasSize {
		return false
	}

	size = min(MaxAtlasSize, size*2)

	a.image = image.NewAlpha(image.Rect(0, 0, size, size))
	a.shelfs = nil
	a.dirty = a.image.Rect

	return true
}

// TakeDirty returns the region modified since the previous call.
func (a *Atlas) TakeDirty() image.Rectangle {
	dirty := a.dirty
	a.dirty = image.Rectangle{}
	return dirty
}
