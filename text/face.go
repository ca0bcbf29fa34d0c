package text

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"
)

// faceIDs hands out face identities. Zero is reserved for the soft font.
var faceIDs atomic.Uint64

// Face is a loaded font file.
//
// Face is safe for concurrent use.
type Face struct {
	id   uint64
	name string
	data []byte

	outlines *sfnt.Font
	shaping  *gtfont.Font

	bufs sync.Pool
	refs atomic.Int64
}

// NewFace parses a TrueType or OpenType font. The data slice is copied.
func NewFace(data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	data = bytes.Clone(data)

	outlines, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	parsed, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}

	f := &Face{
		id:       faceIDs.Add(1),
		data:     data,
		outlines: outlines,
		shaping:  parsed.Font,
	}
	f.bufs.New = func() any { return new(sfnt.Buffer) }
	if name, err := outlines.Name(nil, sfnt.NameIDFamily); err == nil {
		f.name = name
	}
	return f, nil
}

var defaultFace = sync.OnceValue(func() *Face {
	f, err := NewFace(gomono.TTF)
	if err != nil {
		panic("text: bundled Go Mono font: " + err.Error())
	}
	return f
})

// DefaultFace returns the bundled Go Mono face.
func DefaultFace() *Face {
	return defaultFace()
}

// ID returns the face identity. It is never zero.
func (f *Face) ID() uint64 { return f.id }

// Name returns the font family name, if the font has one.
func (f *Face) Name() string { return f.name }

// SFNT returns the parsed outlines.
func (f *Face) SFNT() *sfnt.Font { return f.outlines }

// GlyphIndex maps r to the face's nominal glyph.
func (f *Face) GlyphIndex(r rune) (uint16, bool) {
	buf := f.bufs.Get().(*sfnt.Buffer)
	defer f.bufs.Put(buf)

	gi, err := f.outlines.GlyphIndex(buf, r)
	if err != nil || gi == 0 {
		return 0, false
	}
	return uint16(gi), true
}

// Retain increments the reference count held by caches.
func (f *Face) Retain() { f.refs.Add(1) }

// Release decrements the reference count.
func (f *Face) Release() { f.refs.Add(-1) }

// Refs returns the number of outstanding references.
func (f *Face) Refs() int64 { return f.refs.Load() }

func (f *Face) String() string {
	if f.name == "" {
		return fmt.Sprintf("face#%d", f.id)
	}
	return fmt.Sprintf("%s#%d", f.name, f.id)
}
