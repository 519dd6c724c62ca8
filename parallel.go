package avifpix

import "golang.org/x/sync/errgroup"

// parallelRows splits [0,height) into contiguous bands and runs fn on each
// band, using at most maxThreads goroutines. fn must only touch rows inside
// its band. maxThreads below 2 runs inline.
func parallelRows(height, maxThreads int, fn func(yStart, yEnd int) error) error {
	if maxThreads < 2 || height < 2 {
		return fn(0, height)
	}
	if maxThreads > height {
		maxThreads = height
	}
	var g errgroup.Group
	band := (height + maxThreads - 1) / maxThreads
	for start := 0; start < height; start += band {
		end := start + band
		if end > height {
			end = height
		}
		start, end := start, end
		g.Go(func() error { return fn(start, end) })
	}
	return g.Wait()
}
