// internal/common/camunda/worker.go
package camunda

import (
	"home-quote-workers/internal/common/config"
	"home-quote-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker package's Handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Workers tracks opened job workers so they can be closed together.
type Workers struct {
	open   []worker.JobWorker
	logger logger.Logger
}

func NewWorkers(log logger.Logger) *Workers {
	return &Workers{logger: log}
}

// Start opens a job worker for taskType unless it is disabled in config.
func (w *Workers) Start(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	w.open = append(w.open, jw)

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

func (w *Workers) Len() int {
	return len(w.open)
}

// Close stops polling and waits for in-flight jobs.
func (w *Workers) Close() {
	for _, jw := range w.open {
		jw.Close()
		jw.AwaitClose()
	}
	w.open = nil
}
