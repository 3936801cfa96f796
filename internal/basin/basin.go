// Package basin renders basins of attraction: it classifies a grid of
// zero-velocity starting points under a gravitational field and produces a
// color raster, one pixel per sample.
package basin

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
	"github.com/san-kum/basinmap/internal/integrators"
)

// Map is the result of a render: per-cell outcomes in row-major order plus
// the packed RGB raster derived from them.
type Map struct {
	Size     int
	Outcomes []int  // attractor index or integrators.Escaped, len Size*Size
	Pixels   []byte // 3 bytes per cell, escaped cells are white
}

// Outcome returns the classification of cell (row i, column j).
func (m *Map) Outcome(i, j int) int {
	return m.Outcomes[i*m.Size+j]
}

// Config parameterizes a render. Workers <= 0 means GOMAXPROCS.
type Config struct {
	GridSize int
	Params   integrators.Params
	Workers  int
}

func DefaultConfig() Config {
	return Config{
		GridSize: 500,
		Params:   integrators.DefaultParams(),
	}
}

func (c Config) Validate() error {
	if c.GridSize < 2 {
		return fmt.Errorf("grid size must be at least 2, got %d", c.GridSize)
	}
	return c.Params.Validate()
}

// Renderer drives an integrator over the sample grid. Each cell is
// independent, so rows are sharded across workers; the only shared state is
// the read-only field and disjoint slices of the output buffers.
type Renderer struct {
	field  *field.Field
	integ  integrators.Integrator
	onRows func(done, total int)
}

func NewRenderer(f *field.Field, integ integrators.Integrator) *Renderer {
	return &Renderer{field: f, integ: integ}
}

// OnProgress registers a callback invoked after each completed row with the
// running total. It may be called from multiple goroutines.
func (r *Renderer) OnProgress(fn func(done, total int)) {
	r.onRows = fn
}

// Render classifies every cell of the grid. The grid covers [-1,1]x[-1,1]:
// cell (i,j) starts at x = -1 + 2j/(N-1), y = -1 + 2i/(N-1), at rest.
func (r *Renderer) Render(ctx context.Context, cfg Config) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := r.field.Validate(); err != nil {
		return nil, err
	}

	n := cfg.GridSize
	m := &Map{
		Size:     n,
		Outcomes: make([]int, n*n),
		Pixels:   make([]byte, 3*n*n),
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	rows := make(chan int)
	errs := make([]error, workers)
	var done int
	var mu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := range rows {
				// Keep draining after cancellation so the producer
				// never blocks.
				if err := ctx.Err(); err != nil {
					errs[id] = err
					continue
				}
				r.renderRow(m, i, cfg.Params)
				if r.onRows != nil {
					mu.Lock()
					done++
					d := done
					mu.Unlock()
					r.onRows(d, n)
				}
			}
		}(w)
	}

	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *Renderer) renderRow(m *Map, i int, p integrators.Params) {
	n := m.Size
	denom := float64(n - 1)
	y := -1.0 + 2.0*float64(i)/denom

	for j := 0; j < n; j++ {
		x := -1.0 + 2.0*float64(j)/denom
		idx := r.integ.Integrate(r.field, geom.Vec2{X: x, Y: y}, geom.Vec2{}, p)

		cell := i*n + j
		m.Outcomes[cell] = idx

		px := m.Pixels[3*cell : 3*cell+3]
		if idx >= 0 {
			c := r.field.Attractors[idx].Color
			px[0] = byte(255 * c[0])
			px[1] = byte(255 * c[1])
			px[2] = byte(255 * c[2])
		} else {
			px[0], px[1], px[2] = 255, 255, 255
		}
	}
}
