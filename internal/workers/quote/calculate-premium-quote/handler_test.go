package calculatepremiumquote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"home-quote-workers/internal/common/camunda/camundatest"
	"home-quote-workers/internal/common/database"
	apperrors "home-quote-workers/internal/common/errors"
	"home-quote-workers/internal/common/logger"
	"home-quote-workers/internal/common/metrics"
	"home-quote-workers/internal/pricing"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func createTestHandler(t *testing.T, config *Config, cache *database.QuoteCache) *Handler {
	if config == nil {
		config = createTestConfig()
	}
	return NewHandler(config, cache, nil, logger.NewTestLogger(t))
}

func sqft(v float64) *float64 { return &v }

func createTestJob(variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       101,
		Type:      TaskType,
		Retries:   3,
		Variables: variables,
	}}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Process_Success(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		premium   int
		riskLabel string
		formatted string
	}{
		{
			name:      "texas single family at defaults",
			payload:   `{"state":"Texas","propertyType":"Single Family","squareFootage":2200,"roofAge":8}`,
			premium:   1720,
			riskLabel: pricing.RiskMedium,
			formatted: "$1,720",
		},
		{
			name:      "null square footage and unknown lookups",
			payload:   `{"state":"UnknownState","propertyType":"UnknownType","squareFootage":null,"roofAge":0}`,
			premium:   765,
			riskLabel: pricing.RiskLow,
			formatted: "$765",
		},
		{
			name:      "absent square footage",
			payload:   `{"state":"UnknownState","propertyType":"UnknownType","roofAge":0}`,
			premium:   765,
			riskLabel: pricing.RiskLow,
			formatted: "$765",
		},
		{
			name:      "address is ignored",
			payload:   `{"address":"1 Main St","state":"California","propertyType":"Manufactured","squareFootage":5000,"roofAge":20}`,
			premium:   1945,
			riskLabel: pricing.RiskHigh,
			formatted: "$1,945",
		},
		{
			name:      "out of range values still price when ranges are not strict",
			payload:   `{"state":"Vermont","propertyType":"Condo","squareFootage":20000,"roofAge":120}`,
			premium:   1383,
			riskLabel: pricing.RiskMedium,
			formatted: "$1,383",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, nil, nil)
			out, err := h.Process(context.Background(), []byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.premium, out.Premium)
			assert.Equal(t, tt.riskLabel, out.RiskLabel)
			assert.Equal(t, tt.formatted, out.FormattedPremium)
			assert.Equal(t, float64(pricing.BasePremium), out.Breakdown.Base)
		})
	}
}

func TestHandler_Process_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		strict  bool
		payload string
		wantErr error
	}{
		{"malformed json", false, `{"state":`, ErrParse},
		{"missing roof age", false, `{"state":"Texas"}`, ErrInvalidQuoteInput},
		{"roof age as string", false, `{"roofAge":"old"}`, ErrInvalidQuoteInput},
		{"square footage as string", false, `{"roofAge":1,"squareFootage":"big"}`, ErrInvalidQuoteInput},
		{"strict square footage too small", true, `{"roofAge":1,"squareFootage":100}`, ErrInvalidQuoteInput},
		{"strict roof age too high", true, `{"roofAge":81,"squareFootage":2200}`, ErrInvalidQuoteInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, &Config{Timeout: time.Second, StrictRanges: tt.strict}, nil)
			out, err := h.Process(context.Background(), []byte(tt.payload))
			assert.Nil(t, out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestHandler_Process_StrictAcceptsNominalRange(t *testing.T) {
	h := createTestHandler(t, &Config{Timeout: time.Second, StrictRanges: true}, nil)
	out, err := h.Process(context.Background(), []byte(`{"state":"Wyoming","squareFootage":300,"roofAge":0}`))
	require.NoError(t, err)
	assert.Equal(t, 832, out.Premium)
}

func TestHandler_Execute_MatchesPricingCore(t *testing.T) {
	h := createTestHandler(t, nil, nil)
	for _, state := range pricing.States() {
		input := &Input{State: state, PropertyType: pricing.Townhouse, SquareFootage: sqft(1800), RoofAge: 12}
		out, err := h.Execute(context.Background(), input)
		require.NoError(t, err)

		want := pricing.ComputeQuote(state, pricing.Townhouse, sqft(1800), 12)
		assert.Equal(t, want.Premium, out.Premium, state)
		assert.Equal(t, want.RiskLabel, out.RiskLabel, state)
	}
}

// ==========================
// Cache Tests
// ==========================

func TestHandler_Execute_CachesQuote(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := database.NewQuoteCache(client, time.Minute)
	h := createTestHandler(t, nil, cache)

	input := &Input{State: "Texas", PropertyType: pricing.SingleFamily, SquareFootage: sqft(2200), RoofAge: 8}
	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	key := database.QuoteKey(input.State, input.PropertyType, input.SquareFootage, input.RoofAge)
	require.True(t, mr.Exists(key))

	raw, err := mr.Get(key)
	require.NoError(t, err)
	var stored Output
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, *first, stored)

	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHandler_Execute_ServesCachedQuote(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := createTestHandler(t, nil, database.NewQuoteCache(client, time.Minute))

	input := &Input{State: "Ohio", PropertyType: pricing.Duplex, SquareFootage: sqft(1500), RoofAge: 4}
	key := database.QuoteKey(input.State, input.PropertyType, input.SquareFootage, input.RoofAge)
	require.NoError(t, mr.Set(key, `{"premium":1,"riskLabel":"Low","formattedPremium":"$1"}`))

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Premium)
}

func TestHandler_Execute_CacheFailureIsNotFatal(t *testing.T) {
	client, mock := redismock.NewClientMock()
	h := createTestHandler(t, nil, database.NewQuoteCache(client, time.Minute))

	input := &Input{State: "Texas", PropertyType: pricing.SingleFamily, SquareFootage: sqft(2200), RoofAge: 8}
	key := database.QuoteKey(input.State, input.PropertyType, input.SquareFootage, input.RoofAge)
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	data, err := json.Marshal(BuildOutput(input))
	require.NoError(t, err)
	mock.ExpectSet(key, data, time.Minute).SetErr(errors.New("connection refused"))

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1720, out.Premium)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SeparatorInFieldsDoesNotCollide(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := createTestHandler(t, nil, database.NewQuoteCache(client, time.Minute))

	inputs := []*Input{
		{State: "Texas|Condo", PropertyType: "", SquareFootage: sqft(2200), RoofAge: 8},
		{State: "Texas", PropertyType: "Condo|", SquareFootage: sqft(2200), RoofAge: 8},
		{State: "Texas", PropertyType: pricing.Condo, SquareFootage: sqft(2200), RoofAge: 8},
		{State: "Texas|", PropertyType: pricing.Condo, SquareFootage: sqft(2200), RoofAge: 8},
	}

	// run twice so the second pass is served from the cache
	for pass := 0; pass < 2; pass++ {
		for _, in := range inputs {
			out, err := h.Execute(context.Background(), in)
			require.NoError(t, err)

			want := pricing.ComputeQuote(in.State, in.PropertyType, in.SquareFootage, in.RoofAge)
			assert.Equal(t, want.Premium, out.Premium, "pass %d state %q type %q", pass, in.State, in.PropertyType)
			assert.Equal(t, want.RiskLabel, out.RiskLabel)
		}
	}
	assert.Len(t, mr.Keys(), len(inputs))
}

func TestHandler_Execute_CountsCachedQuotes(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := createTestHandler(t, nil, database.NewQuoteCache(client, time.Minute))

	counter := metrics.QuotesComputed.WithLabelValues(pricing.RiskMedium, metrics.SourceAPI)
	hits := metrics.QuoteCacheLookups.WithLabelValues("hit")
	beforeQuotes, beforeHits := testutil.ToFloat64(counter), testutil.ToFloat64(hits)

	ctx := metrics.WithSource(context.Background(), metrics.SourceAPI)
	input := &Input{State: "Texas", PropertyType: pricing.SingleFamily, SquareFootage: sqft(2200), RoofAge: 8}
	for i := 0; i < 3; i++ {
		out, err := h.Execute(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, 1720, out.Premium)
	}

	assert.Equal(t, beforeQuotes+3, testutil.ToFloat64(counter))
	assert.Equal(t, beforeHits+2, testutil.ToFloat64(hits))
}

func TestBuildOutput(t *testing.T) {
	out := BuildOutput(&Input{State: "Georgia", PropertyType: pricing.SingleFamily, SquareFootage: sqft(4000), RoofAge: 10})
	assert.Equal(t, 1543, out.Premium)
	assert.Equal(t, "$1,543", out.FormattedPremium)
	assert.Equal(t, pricing.MediumRisk, out.Breakdown.HazardFactor)
	assert.Equal(t, 1.06, out.Breakdown.RoofFactor)
}

func TestSentinelErrors(t *testing.T) {
	assert.True(t, errors.Is(apperrors.NewInvalidQuoteInputError("x", nil), ErrInvalidQuoteInput))
	assert.False(t, errors.Is(apperrors.NewParseError(errors.New("x")), ErrInvalidQuoteInput))
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_CompletesJob(t *testing.T) {
	client := camundatest.NewJobClient()
	h := createTestHandler(t, nil, nil)

	h.Handle(client, createTestJob(`{"state":"Texas","propertyType":"Single Family","squareFootage":2200,"roofAge":8}`))

	completed := client.Completed()
	require.Len(t, completed, 1)
	assert.Empty(t, client.Thrown())
	assert.Equal(t, int64(101), completed[0].GetJobKey())

	var out Output
	require.NoError(t, json.Unmarshal([]byte(completed[0].GetVariables()), &out))
	assert.Equal(t, 1720, out.Premium)
	assert.Equal(t, pricing.RiskMedium, out.RiskLabel)
}

func TestHandler_Handle_ThrowsOnInvalidInput(t *testing.T) {
	client := camundatest.NewJobClient()
	h := createTestHandler(t, nil, nil)

	h.Handle(client, createTestJob(`{"state":"Texas","squareFootage":"big"}`))

	assert.Empty(t, client.Completed())
	assert.Empty(t, client.Failed())
	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, string(apperrors.ErrCodeInvalidQuoteInput), thrown[0].GetErrorCode())
}

func TestHandler_Handle_CompletionFailureIsRetried(t *testing.T) {
	client := camundatest.NewJobClient()
	client.FailCompleteWith(errors.New("rpc error: code = Unavailable"))
	h := createTestHandler(t, nil, nil)

	h.Handle(client, createTestJob(`{"state":"Texas","roofAge":8}`))

	assert.Empty(t, client.Thrown())
	failed := client.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int32(2), failed[0].GetRetries())
	assert.Equal(t, "Failed to complete job", failed[0].GetErrorMessage())
}
