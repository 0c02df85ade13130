package imagepkg

import (
	"context"
	"image"
)

// Scratch is one set of working buffers for a single composition.
type Scratch struct {
	Portrait *image.NRGBA
	Mask     *image.NRGBA
	Overlay  *image.NRGBA

	pool *Pool
}

// Pool is a fixed set of Scratch values. A Scratch is owned by exactly one
// caller between Acquire and Release, so concurrent compositions never see
// each other's buffers.
type Pool struct {
	free chan *Scratch
}

// NewPool creates a pool with n scratch sets (at least one).
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{free: make(chan *Scratch, n)}
	for i := 0; i < n; i++ {
		p.free <- &Scratch{
			Portrait: &image.NRGBA{},
			Mask:     &image.NRGBA{},
			Overlay:  &image.NRGBA{},
			pool:     p,
		}
	}
	return p
}

// Size is the number of scratch sets.
func (p *Pool) Size() int {
	return cap(p.free)
}

// Acquire waits for a free scratch set.
func (p *Pool) Acquire(ctx context.Context) (*Scratch, error) {
	select {
	case s := <-p.free:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release clears the buffers and hands the set back. Calling Release twice
// is a bug and panics when the pool is already full.
func (s *Scratch) Release() {
	clear(s.Portrait.Pix)
	clear(s.Mask.Pix)
	clear(s.Overlay.Pix)
	select {
	case s.pool.free <- s:
	default:
		panic("imagepkg: scratch released twice")
	}
}

// reshape cuts buf to a cleared size×size image, reusing its backing
// array when it is large enough.
func reshape(buf *image.NRGBA, size int) *image.NRGBA {
	n := size * size * 4
	if cap(buf.Pix) >= n {
		buf.Pix = buf.Pix[:n]
		clear(buf.Pix)
	} else {
		buf.Pix = make([]uint8, n)
	}
	buf.Stride = size * 4
	buf.Rect = image.Rect(0, 0, size, size)
	return buf
}
