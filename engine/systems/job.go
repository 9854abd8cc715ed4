package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima2d/engine/core"
)

/**
 * @brief Describes a job to be run.
 *
 * Run executes on a worker goroutine and must not touch GPU state. The
 * callbacks run on whichever goroutine calls JobSystem.Update, which is the
 * render thread.
 */
type JobTask struct {
	Name      string
	Run       func() (interface{}, error)
	OnSuccess func(result interface{})
	OnFailure func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
	inflight   sync.WaitGroup

	// guards closed and sends on jobQueue
	submitMutex sync.Mutex
	closed      bool

	mutex   sync.Mutex
	results []jobResult
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := job.Run()
				if err != nil {
					core.LogError("job '%s' failed: %s", job.Name, err)
				}
				js.mutex.Lock()
				js.results = append(js.results, jobResult{task: job, result: result, err: err})
				js.mutex.Unlock()
				js.inflight.Done()
			}
		}()
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.submitMutex.Lock()
	defer js.submitMutex.Unlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.inflight.Add(1)
	js.jobQueue <- jt
	return nil
}

/**
 * @brief Dispatches the callbacks of every finished job. Should happen once
 * an update cycle, on the render thread. Returns the number of jobs handled.
 */
func (js *JobSystem) Update() int {
	js.mutex.Lock()
	done := js.results
	js.results = nil
	js.mutex.Unlock()

	for _, r := range done {
		if r.err != nil {
			if r.task.OnFailure != nil {
				r.task.OnFailure(r.err)
			}
			continue
		}
		if r.task.OnSuccess != nil {
			r.task.OnSuccess(r.result)
		}
	}
	return len(done)
}

// Wait blocks until every submitted job has run, then dispatches their callbacks.
func (js *JobSystem) Wait() int {
	js.inflight.Wait()
	return js.Update()
}

/**
 * @brief Shuts the job system down. Jobs already queued still run and their
 * callbacks are dispatched before returning.
 */
func (js *JobSystem) Shutdown() error {
	js.submitMutex.Lock()
	if js.closed {
		js.submitMutex.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.submitMutex.Unlock()

	js.wg.Wait()
	js.Update()
	return nil
}
