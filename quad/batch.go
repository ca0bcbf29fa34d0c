package quad

// minBatchCapacity is the capacity of the first allocation.
const minBatchCapacity = 256

// Batch is the append-only instance buffer of a frame.
//
// Append and Last return pointers into the backing array; a pointer is
// valid until the next Append, which may move the array.
type Batch struct {
	items []Instance
	n     int
	buf   []byte
}

// NewBatch creates a batch with room for capacity instances.
func NewBatch(capacity int) *Batch {
	return &Batch{items: make([]Instance, max(capacity, minBatchCapacity))}
}

// Len returns the number of appended instances.
func (b *Batch) Len() int { return b.n }

// Cap returns the number of instances that fit without growing.
func (b *Batch) Cap() int { return len(b.items) }

// Append adds an instance and returns it for the caller to fill in. Every
// field must be written; the slot may hold data of an earlier frame.
func (b *Batch) Append() *Instance {
	if b.n == len(b.items) {
		b.grow()
	}
	q := &b.items[b.n]
	b.n++
	return q
}

// grow doubles the backing array.
func (b *Batch) grow() {
	items := make([]Instance, max(2*len(b.items), minBatchCapacity))
	copy(items, b.items[:b.n])
	b.items = items
}

// Last returns the most recently appended instance, or nil if the batch is
// empty. It is used to extend the previous instance in place.
func (b *Batch) Last() *Instance {
	if b.n == 0 {
		return nil
	}
	return &b.items[b.n-1]
}

// Reset empties the batch and keeps its capacity.
func (b *Batch) Reset() {
	b.n = 0
}

// Bytes encodes the appended instances. The returned slice is reused by
// the next call.
func (b *Batch) Bytes() []byte {
	size := b.n * InstanceSize
	if cap(b.buf) < size {
		b.buf = make([]byte, size, size+size/2)
	}
	b.buf = b.buf[:size]
	for i := 0; i < b.n; i++ {
		b.items[i].Put(b.buf[i*InstanceSize:])
	}
	return b.buf
}

// Run is a contiguous range of instances in the same paint group.
type Run struct {
	Group PaintGroup
	First int
	Count int
}

// Runs splits the batch into one run per contiguous paint group, in batch
// order. Instances are never reordered.
func (b *Batch) Runs() []Run {
	var runs []Run
	for i := 0; i < b.n; i++ {
		g := b.items[i].Shading.Group()
		if len(runs) > 0 && runs[len(runs)-1].Group == g {
			runs[len(runs)-1].Count++
			continue
		}
		runs = append(runs, Run{Group: g, First: i, Count: 1})
	}
	return runs
}
