package avgrow

import (
	"runtime"
	"sync"
)

// EdgeMode selects how scan coordinates outside an axis map back into the
// buffer. One mode is chosen per filter invocation and applied to both axes.
type EdgeMode int

const (
	// EdgeClamp saturates out-of-range coordinates at the nearest edge.
	EdgeClamp EdgeMode = iota
	// EdgeWrap treats the axis as cyclic, taking coordinates modulo length.
	EdgeWrap
)

// Resolve maps a signed coordinate to a valid index on an axis of length n.
// n must be positive; the filter entry rejects empty buffers before any
// scanning starts.
func (m EdgeMode) Resolve(i, n int) int {
	if m == EdgeWrap {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// readPixel returns the channel samples at position pos of the given line.
// writePixel stores samples at a position; implementations must copy, the
// scan reuses its scratch slices between calls.
type (
	readPixel  func(line, pos int) []int32
	writePixel func(line, pos int, px []int32)
)

// scanAxis runs the adaptive averaging scan over every line of one axis.
// Lines are independent (each carries its own run state and writes a
// disjoint set of output positions), so they are distributed over a small
// worker pool. Reads come exclusively from the input buffer and writes go
// exclusively to the output buffer, keeping each pass race-free.
func scanAxis(read readPixel, write writePixel, lines, length, channels, colorChannels, threshold int, edge EdgeMode) {
	workers := runtime.GOMAXPROCS(0)
	if workers > lines {
		workers = lines
	}
	chunk := (lines + workers - 1) / workers

	var wg sync.WaitGroup
	for first := 0; first < lines; first += chunk {
		last := first + chunk
		if last > lines {
			last = lines
		}
		wg.Add(1)
		go func(first, last int) {
			defer wg.Done()
			for line := first; line < last; line++ {
				scanLine(read, write, line, length, channels, colorChannels, threshold, edge)
			}
		}(first, last)
	}
	wg.Wait()
}

// scanLine averages runs of similar pixels along one line.
//
// The running sum is accumulated from the previous pixel before the next one
// is read, so a pixel is always tested against the average of everything
// seen so far excluding itself. A run flushes when any color channel of the
// newly read pixel deviates from that average by more than the threshold, or
// when the scan reaches its final position; the flush writes the truncated
// integer average to every position of the run except the pixel that ended
// it, which reseeds the next run. The current raw pixel is written at every
// step, so positions past the last flush keep their literal values.
//
// In wrap mode the scan overshoots by one full extra period so that runs
// crossing the seam still meet a flush point; with overhead 0 (clamp mode)
// no coordinate ever leaves [0, length).
func scanLine(read readPixel, write writePixel, line, length, channels, colorChannels, threshold int, edge EdgeMode) {
	overhead := 0
	if edge == EdgeWrap {
		overhead = length
	}
	last := length + overhead - 1

	sum := make([]int64, channels)
	avg := make([]int32, channels)
	pixel := make([]int32, channels)

	copy(pixel, read(line, edge.Resolve(0, length)))
	for c := range sum {
		sum[c] = int64(pixel[c])
	}
	start := 0
	count := int64(1)

	for pos := 0; pos <= last; pos++ {
		count++
		next := read(line, edge.Resolve(pos, length))
		for c := 0; c < channels; c++ {
			sum[c] += int64(pixel[c])
		}
		copy(pixel, next)

		// Exact form of |pixel - sum/count| > threshold with the division
		// cross-multiplied away.
		breach := false
		bound := int64(threshold) * count
		for c := 0; c < colorChannels; c++ {
			d := int64(pixel[c])*count - sum[c]
			if d < 0 {
				d = -d
			}
			if d > bound {
				breach = true
				break
			}
		}

		if breach || pos == last {
			for c := 0; c < channels; c++ {
				avg[c] = int32(sum[c] / count)
			}
			for i := start; i < pos; i++ {
				write(line, edge.Resolve(i, length), avg)
			}
			start = pos
			count = 1
			for c := 0; c < channels; c++ {
				sum[c] = int64(pixel[c])
			}
		}

		write(line, edge.Resolve(pos, length), pixel)
	}
}
