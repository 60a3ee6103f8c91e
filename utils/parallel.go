package utils

import (
	"image"
	"math"
	"runtime"
	"sync"

	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// ParallelForEachPixel loops through the image and calls f functions for each [x, y] position.
// The image is divided into N * N blocks, where N is ParallelFactor. For each block a
// parallel Goroutine is started. f must be safe to call concurrently for distinct positions.
func ParallelForEachPixel(size image.Point, f func(x, y int)) {
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	procs := ParallelFactor
	var waitGroup sync.WaitGroup
	waitGroup.Add(procs * procs)
	for i := 0; i < procs; i++ {
		startX, endX := blockBounds(i, procs, size.X)
		for j := 0; j < procs; j++ {
			startY, endY := blockBounds(j, procs, size.Y)
			sX, eX, sY, eY := startX, endX, startY, endY
			utils.PanicCapturingGo(func() {
				defer waitGroup.Done()
				for x := sX; x < eX; x++ {
					for y := sY; y < eY; y++ {
						f(x, y)
					}
				}
			})
		}
	}
	waitGroup.Wait()
}

// blockBounds returns the [start, end) range of block i out of n blocks covering total.
// The last block absorbs the remainder.
func blockBounds(i, n, total int) (int, int) {
	step := int(math.Floor(float64(total) / float64(n)))
	start := i * step
	if i < n-1 {
		return start, (i + 1) * step
	}
	return start, total
}
