package parallel

// Band is the row range [Y0, Y1) of an image.
type Band struct {
	Y0, Y1 int
}

// minBandRows keeps bands large enough to amortize scheduling.
const minBandRows = 16

// Bands splits height rows into at most n bands of nearly equal size.
func Bands(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(min(n, (height+minBandRows-1)/minBandRows), 1)
	bands := make([]Band, 0, n)
	for i := range n {
		bands = append(bands, Band{Y0: height * i / n, Y1: height * (i + 1) / n})
	}
	return bands
}

// ForBands calls fn for every band of height rows and waits until all
// calls returned. Bands run concurrently and must not write shared rows.
func (p *WorkerPool) ForBands(height int, fn func(b Band)) {
	bands := Bands(height, p.workers)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
