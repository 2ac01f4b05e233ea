package sim

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/sph/systems"
)

// parallelThreshold is the minimum particle count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// passFunc processes particles [start, end) using the worker's scratch.
type passFunc func(start, end int, scratch *workerScratch)

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Neighbors []systems.Neighbor
	WallHits  int
}

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
	pass       passFunc
}

// parallelState holds the persistent worker pool.
type parallelState struct {
	scratches  []workerScratch
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState(workers int) *parallelState {
	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].Neighbors = make([]systems.Neighbor, 0, 64)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.pass(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// run applies pass to particles [0, n) and returns once every chunk is done.
func (p *parallelState) run(n int, pass passFunc) {
	if n < parallelThreshold || p.numWorkers == 1 {
		pass(0, n, &p.scratches[0])
		return
	}

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, pass: pass}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// drainWallHits sums and resets the per-worker collision counters.
func (p *parallelState) drainWallHits() int {
	total := 0
	for i := range p.scratches {
		total += p.scratches[i].WallHits
		p.scratches[i].WallHits = 0
	}
	return total
}
