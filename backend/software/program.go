package software

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/termatlas/gpucore"
	"github.com/gogpu/termatlas/internal/parallel"
	"github.com/gogpu/termatlas/quad"
)

// program is one pass worth of decoded quad bindings.
type program struct {
	background      [4]float32
	cellSize        [2]float32
	cellCount       [2]int
	gammaRatios     [4]float32
	contrast        float32
	underlineWidth  float32
	atlasW, atlasH  int
	instanceData    []byte
	atlas           []byte
	backgroundCells []byte
}

func float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func newProgram(bufs [][]byte) (*program, error) {
	ps, info := bufs[1], bufs[2]
	if len(ps) < quad.PSConstantsSize || len(info) < quad.AtlasConstantsSize {
		return nil, fmt.Errorf("%w: uniform buffers too small", ErrUnsupportedPipeline)
	}
	p := &program{
		instanceData:    bufs[3],
		atlas:           bufs[4],
		backgroundCells: bufs[5],
		atlasW:          int(binary.LittleEndian.Uint32(info[0:])),
		atlasH:          int(binary.LittleEndian.Uint32(info[4:])),
		contrast:        float32At(ps, 48),
		underlineWidth:  float32At(ps, 52),
	}
	for i := range 4 {
		p.background[i] = float32At(ps, i*4)
		p.gammaRatios[i] = float32At(ps, 32+i*4)
	}
	p.cellSize = [2]float32{float32At(ps, 16), float32At(ps, 20)}
	p.cellCount = [2]int{int(float32At(ps, 24)), int(float32At(ps, 28))}
	if p.atlasW*p.atlasH*4 > len(p.atlas) {
		return nil, fmt.Errorf("software: atlas %dx%d exceeds its buffer", p.atlasW, p.atlasH)
	}
	return p, nil
}

// instances decodes the drawn instances in draw order.
func (p *program) instances(draws []gpucore.DrawRange) ([]quad.Instance, error) {
	var out []quad.Instance
	for _, dr := range draws {
		end := (int(dr.First) + int(dr.Count)) * quad.InstanceSize
		if end > len(p.instanceData) {
			return nil, fmt.Errorf("software: draw [%d,+%d) past the instance buffer", dr.First, dr.Count)
		}
		for i := dr.First; i < dr.First+dr.Count; i++ {
			out = append(out, quad.DecodeInstance(p.instanceData[int(i)*quad.InstanceSize:]))
		}
	}
	return out, nil
}

func unpack(c uint32) [4]float32 {
	return [4]float32{
		float32(c&0xff) / 255,
		float32(c>>8&0xff) / 255,
		float32(c>>16&0xff) / 255,
		float32(c>>24) / 255,
	}
}

func premultiply(c [4]float32) [4]float32 {
	return [4]float32{c[0] * c[3], c[1] * c[3], c[2] * c[3], c[3]}
}

func scale(c [4]float32, k float32) [4]float32 {
	return [4]float32{c[0] * k, c[1] * k, c[2] * k, c[3] * k}
}

func unorm(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

func (p *program) texel(x, y int) [4]float32 {
	x = min(max(x, 0), p.atlasW-1)
	y = min(max(y, 0), p.atlasH-1)
	return unpack(binary.LittleEndian.Uint32(p.atlas[(y*p.atlasW+x)*4:]))
}

func (p *program) textAlpha(coverage float32, c [4]float32) float32 {
	intensity := c[0]*0.25 + c[1]*0.5 + c[2]*0.25
	k := p.contrast
	a := coverage * (k + 1) / (coverage*k + 1)
	g := p.gammaRatios
	a += a * (1 - a) * ((g[0]*intensity+g[1])*a + (g[2]*intensity + g[3]))
	return min(max(a, 0), 1)
}

// shade computes the premultiplied color of pixel (x, y) for q. It
// reports false for discarded pixels.
func (p *program) shade(q *quad.Instance, c [4]float32, x, y int) ([4]float32, bool) {
	tx := int(q.TexCoord.X) + x - int(q.Position.X)
	ty := int(q.TexCoord.Y) + y - int(q.Position.Y)
	switch q.Shading {
	case quad.ShadingBackground:
		cx := int((float32(x) + 0.5) / p.cellSize[0])
		cy := int((float32(y) + 0.5) / p.cellSize[1])
		if cx >= p.cellCount[0] || cy >= p.cellCount[1] {
			return p.background, true
		}
		i := (cy*p.cellCount[0] + cx) * 4
		if i+4 > len(p.backgroundCells) {
			return p.background, true
		}
		return premultiply(unpack(binary.LittleEndian.Uint32(p.backgroundCells[i:]))), true
	case quad.ShadingTextGrayscale:
		return scale(premultiply(c), p.textAlpha(p.texel(tx, ty)[3], c)), true
	case quad.ShadingTextClearType:
		cov := p.texel(tx, ty)
		r, g, b := p.textAlpha(cov[0], c), p.textAlpha(cov[1], c), p.textAlpha(cov[2], c)
		return [4]float32{c[0] * r * c[3], c[1] * g * c[3], c[2] * b * c[3], max(r, g, b) * c[3]}, true
	case quad.ShadingTextPassthrough:
		return p.texel(tx, ty), true
	case quad.ShadingDottedLine, quad.ShadingDottedLineWide:
		period := max(p.underlineWidth, 1) * 2
		if q.Shading == quad.ShadingDottedLineWide {
			period *= 2
		}
		f := (float32(x-int(q.Position.X)) + 0.5) / (period * 2)
		if f-float32(math.Floor(float64(f))) >= 0.5 {
			return [4]float32{}, false
		}
		return premultiply(c), true
	default:
		return premultiply(c), true
	}
}

// draw blends q over the rows of band b.
func (p *program) draw(dst *image.RGBA, q *quad.Instance, b parallel.Band) {
	r := image.Rect(int(q.Position.X), int(q.Position.Y),
		int(q.Position.X)+int(q.Size.X), int(q.Position.Y)+int(q.Size.Y))
	r = r.Intersect(image.Rect(0, b.Y0, dst.Rect.Dx(), b.Y1))
	if r.Empty() {
		return
	}
	c := unpack(q.Color)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			src, ok := p.shade(q, c, x, y)
			if !ok || src[3] == 0 && src[0] == 0 && src[1] == 0 && src[2] == 0 {
				continue
			}
			i := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
			px := dst.Pix[i : i+4 : i+4]
			inv := 1 - src[3]
			for ch := range 4 {
				px[ch] = unorm(src[ch] + float32(px[ch])/255*inv)
			}
		}
	}
}
