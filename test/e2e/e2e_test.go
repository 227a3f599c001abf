// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-quote-workers/internal/common/camunda"
	"home-quote-workers/internal/common/config"
	"home-quote-workers/internal/common/logger"
	bdd "home-quote-workers/internal/workers/quote/build-dashboard-data"
	cpq "home-quote-workers/internal/workers/quote/calculate-premium-quote"
)

const processID = "home-quote"

var zeebeClient zbc.Client

// TestMain connects to the broker named by ZEEBE_ADDRESS. Without it the
// suite is skipped.
func TestMain(m *testing.M) {
	addr := os.Getenv("ZEEBE_ADDRESS")
	if addr == "" {
		fmt.Println("ZEEBE_ADDRESS not set, skipping e2e tests")
		os.Exit(0)
	}

	var err error
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         addr,
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Zeebe: %v", err))
	}

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func startWorkers(t *testing.T) {
	log := logger.NewTestLogger(t)
	wcfg := config.WorkerConfig{Enabled: true, MaxJobsActive: 5, Timeout: 30000}

	workers := camunda.NewWorkers(log)
	workers.Start(zeebeClient, cpq.TaskType, wcfg, cpq.NewHandler(cpq.LoadConfig(), nil, nil, log))
	workers.Start(zeebeClient, bdd.TaskType, wcfg, bdd.NewHandler(bdd.LoadConfig(), nil, log))
	t.Cleanup(workers.Close)
}

func deployProcess(t *testing.T, ctx context.Context) {
	_, err := zeebeClient.NewDeployResourceCommand().
		AddResourceFile("testdata/home-quote.bpmn").
		Send(ctx)
	require.NoError(t, err)
}

func runProcess(t *testing.T, ctx context.Context, vars map[string]interface{}) map[string]interface{} {
	cmd, err := zeebeClient.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(vars)
	require.NoError(t, err)

	resp, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &out))
	return out
}

func TestQuoteProcess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	deployProcess(t, ctx)
	startWorkers(t)

	out := runProcess(t, ctx, map[string]interface{}{
		"state":         "Texas",
		"propertyType":  "Single Family",
		"squareFootage": 2200,
		"roofAge":       8,
		"topN":          12,
	})

	assert.EqualValues(t, 1720, out["premium"])
	assert.Equal(t, "Medium", out["riskLabel"])
	assert.Equal(t, "$1,720", out["formattedPremium"])

	top, ok := out["topRiskStates"].([]interface{})
	require.True(t, ok)
	assert.Len(t, top, 12)
}
