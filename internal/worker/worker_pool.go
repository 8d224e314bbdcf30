package worker

import (
	"sync"

	"github.com/rs/zerolog"
)

type Task func()

// WorkerPool runs submitted tasks on a fixed number of goroutines. Stop
// blocks until every submitted task has returned.
type WorkerPool struct {
	tasks         chan Task
	wg            sync.WaitGroup
	activeWorkers int
	maxWorkers    int
	completed     int
	panicked      int
	logger        zerolog.Logger
	mu            sync.RWMutex
}

func NewWorkerPool(maxWorkers int, logger zerolog.Logger) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		tasks:      make(chan Task, maxWorkers*10),
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	wp.logger.Debug().Int("workers_started", wp.maxWorkers).Msg("Worker pool started")
}

func (wp *WorkerPool) Stop() {
	close(wp.tasks)
	wp.wg.Wait()

	wp.logger.Debug().Fields(wp.GetStats()).Msg("Worker pool stopped")
}

// Submit blocks until a worker queue slot is free. It must not be called
// after Stop.
func (wp *WorkerPool) Submit(task Task) {
	wp.tasks <- task
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.tasks {
		wp.mu.Lock()
		wp.activeWorkers++
		wp.mu.Unlock()

		ok := wp.run(id, task)

		wp.mu.Lock()
		wp.activeWorkers--
		if ok {
			wp.completed++
		} else {
			wp.panicked++
		}
		wp.mu.Unlock()
	}
}

func (wp *WorkerPool) run(id int, task Task) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error().
				Int("worker_id", id).
				Interface("panic", r).
				Msg("Worker recovered from panic")
			ok = false
		}
	}()

	task()
	return true
}

// GetStats returns a snapshot of the pool counters, keyed for log fields.
func (wp *WorkerPool) GetStats() map[string]interface{} {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return map[string]interface{}{
		"active_workers": wp.activeWorkers,
		"max_workers":    wp.maxWorkers,
		"completed":      wp.completed,
		"panicked":       wp.panicked,
		"queue_length":   len(wp.tasks),
		"queue_capacity": cap(wp.tasks),
	}
}
