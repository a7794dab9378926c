package squish

import (
	"github.com/gammazero/workerpool"
	"runtime"
)

// CompressImageParallel produces the same blocks as CompressImage, compressing each row of
// tiles as a separate task on a pool of workers. A workers value <= 0 uses one worker per CPU.
func CompressImageParallel(blocks, rgba []byte, width, height, pitch int, flags Flags, metric *Metric, workers int) {
	if width <= 0 || height <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pitch = resolvePitch(width, pitch)
	rowSize := GetStorageRequirements(width, 4, flags)

	wp := workerpool.New(workers)
	for y := 0; y < height; y += 4 {
		rows := minInt(4, height-y)
		src := rgba[y*pitch:]
		dst := blocks[(y/4)*rowSize : (y/4+1)*rowSize]
		wp.Submit(func() {
			CompressImage(dst, src, width, rows, pitch, flags, metric)
		})
	}
	wp.StopWait()
}
