package sim

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/flock/systems"
)

// defaultParallelThreshold is the minimum agent count for the worker pool.
// Below this the force pass runs on the stepping goroutine.
const defaultParallelThreshold = 64

// workChunk is a range of agents for one worker.
type workChunk struct {
	start, end int
}

// workerPool evaluates flocking forces over disjoint agent ranges.
// Workers only read the grid and input columns and only write their own
// range of the output buffers.
type workerPool struct {
	numWorkers int

	// Current job, set before chunks are dispatched
	flocking *systems.Flocking
	out      *systems.ForceOutput

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: workers}
}

// start launches persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.flocking.EvaluateRange(chunk.start, chunk.end, p.out)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits [0, n) into one chunk per worker and blocks until all are done.
func (p *workerPool) run(f *systems.Flocking, out *systems.ForceOutput, n int) {
	if !p.running {
		p.start()
	}
	p.flocking = f
	p.out = out

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
	p.flocking = nil
	p.out = nil
}
