package parallel

import (
	"context"
	"fmt"
	"sync"
)

// Task is a named unit of work that writes only to its own output
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// PanicError wraps a value recovered from a panicking task
type PanicError struct {
	Task  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Task, e.Value)
}

// RunTasks executes tasks on the pool and waits for all of them. The result
// maps task name to its error; tasks that succeeded are absent. A panic is
// converted into a *PanicError for that task only. Tasks that could not be
// queued because the pool is closed run inline on the caller goroutine.
func RunTasks(ctx context.Context, pool *WorkerPool, tasks []Task) map[string]error {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs = make(map[string]error)
	)

	record := func(name string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs[name] = err
		mu.Unlock()
	}

	for _, task := range tasks {
		task := task
		wg.Add(1)
		job := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					record(task.Name, &PanicError{Task: task.Name, Value: r})
				}
			}()
			if err := ctx.Err(); err != nil {
				record(task.Name, err)
				return
			}
			record(task.Name, task.Run(ctx))
		}

		if pool == nil || !pool.Submit(job) {
			job()
		}
	}

	wg.Wait()
	return errs
}
