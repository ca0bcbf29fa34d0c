package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	if want := runtime.GOMAXPROCS(0); pool.Workers() != want {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), want)
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	if got := counter.Load(); got != 100 {
		t.Errorf("counter = %d, want 100", got)
	}
}

func TestWorkerPool_ExecuteAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	ran := 0
	pool.ExecuteAll([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("ran = %d after Close, want 2", ran)
	}
	if pool.IsRunning() {
		t.Error("IsRunning() after Close")
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		height, n int
		want      int
	}{
		{0, 4, 0},
		{10, 4, 1},
		{64, 4, 4},
		{100, 3, 3},
		{1000, 0, 1},
	}
	for _, tt := range tests {
		bands := Bands(tt.height, tt.n)
		if len(bands) != tt.want {
			t.Errorf("Bands(%d, %d) = %d bands, want %d", tt.height, tt.n, len(bands), tt.want)
			continue
		}
		next := 0
		for _, b := range bands {
			if b.Y0 != next || b.Y1 <= b.Y0 {
				t.Errorf("Bands(%d, %d): band %+v does not continue at %d", tt.height, tt.n, b, next)
			}
			next = b.Y1
		}
		if len(bands) > 0 && next != tt.height {
			t.Errorf("Bands(%d, %d) ends at %d", tt.height, tt.n, next)
		}
	}
}

func TestWorkerPool_ForBands(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	rows := make([]int32, 200)
	pool.ForBands(len(rows), func(b Band) {
		for y := b.Y0; y < b.Y1; y++ {
			rows[y]++
		}
	})
	for y, n := range rows {
		if n != 1 {
			t.Fatalf("row %d visited %d times", y, n)
		}
	}
}
