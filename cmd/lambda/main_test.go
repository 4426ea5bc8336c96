package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/pricofy/games-api/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	mu     sync.Mutex
	inputs []*lambdasdk.InvokeInput
	err    error
}

func (f *fakeInvoker) Invoke(_ context.Context, in *lambdasdk.InvokeInput, _ ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return &lambdasdk.InvokeOutput{}, f.err
}

func TestIsWarmupEvent(t *testing.T) {
	tests := []struct {
		name            string
		event           string
		wantOK          bool
		wantConcurrency int
	}{
		{name: "warmup without concurrency", event: `{"source":"warmup"}`, wantOK: true},
		{name: "warmup with concurrency", event: `{"source":"warmup","concurrency":3}`, wantOK: true, wantConcurrency: 3},
		{name: "concurrency capped", event: `{"source":"warmup","concurrency":500}`, wantOK: true, wantConcurrency: maxWarmupConcurrency},
		{name: "negative concurrency", event: `{"source":"warmup","concurrency":-2}`, wantOK: true},
		{name: "other source", event: `{"source":"aws.events"}`},
		{name: "proxy event", event: `{"resource":"/games","httpMethod":"GET"}`},
		{name: "not an object", event: `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := IsWarmupEvent(json.RawMessage(tt.event))
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantConcurrency, w.Concurrency)
			}
		})
	}
}

func TestWarmer_SelfInvokes(t *testing.T) {
	inv := &fakeInvoker{}
	w := NewWarmer(inv, "games-api")
	w.delay = 0

	out, err := w.Handle(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 4})
	require.NoError(t, err)
	assert.Equal(t, WarmupResponse{Status: "warm", InstancesWarmed: 5}, out["body"])

	require.Len(t, inv.inputs, 4)
	for _, in := range inv.inputs {
		assert.Equal(t, "games-api", *in.FunctionName)
		assert.Equal(t, types.InvocationTypeEvent, in.InvocationType)
		assert.JSONEq(t, `{"source":"warmup","concurrency":0}`, string(in.Payload))
	}
}

func TestWarmer_InvokeFailureStillWarmsSelf(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("throttled")}
	w := NewWarmer(inv, "games-api")
	w.delay = 0

	out, err := w.Handle(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, WarmupResponse{Status: "warm", InstancesWarmed: 1}, out["body"])
}

func TestWarmer_NoFunctionNameSkipsFanOut(t *testing.T) {
	inv := &fakeInvoker{}
	w := NewWarmer(inv, "")
	w.delay = 0

	_, err := w.Handle(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 2})
	require.NoError(t, err)
	assert.Empty(t, inv.inputs)
}

func TestHandleRequest_DispatchesProxyEvents(t *testing.T) {
	inv := &fakeInvoker{}
	fn := &function{
		api:    handler.New(handler.Deps{}),
		warmer: NewWarmer(inv, "games-api"),
	}
	fn.warmer.delay = 0

	out, err := fn.handleRequest(context.Background(), json.RawMessage(`{"resource":"/nowhere","httpMethod":"GET"}`))
	require.NoError(t, err)
	resp, ok := out.(events.APIGatewayProxyResponse)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	out, err = fn.handleRequest(context.Background(), json.RawMessage(`{"source":"warmup"}`))
	require.NoError(t, err)
	assert.IsType(t, map[string]interface{}{}, out)
	assert.Empty(t, inv.inputs)
}
