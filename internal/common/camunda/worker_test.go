package camunda

import (
	"testing"

	"home-quote-workers/internal/common/config"
	"home-quote-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

type noopHandler struct{}

func (noopHandler) Handle(worker.JobClient, entities.Job) {}

func TestWorkers_StartDisabled(t *testing.T) {
	w := NewWorkers(logger.NewTestLogger(t))

	started := w.Start(nil, "calculate-premium-quote", config.WorkerConfig{Enabled: false}, noopHandler{})
	assert.False(t, started)
	assert.Equal(t, 0, w.Len())

	w.Close()
}
