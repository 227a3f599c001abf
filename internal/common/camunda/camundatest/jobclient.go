// Package camundatest provides an in-memory worker.JobClient for handler tests.
package camundatest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// JobClient records the complete, fail and throw-error commands a handler
// sends. It builds the real zeebe commands over a fake gateway, so the
// recorded requests are exactly what the broker would receive.
type JobClient struct {
	gw *gateway
}

func NewJobClient() *JobClient {
	return &JobClient{gw: &gateway{}}
}

// FailCompleteWith makes every complete command return err.
func (c *JobClient) FailCompleteWith(err error) {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	c.gw.completeErr = err
}

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gw, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gw, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gw, noRetry)
}

func (c *JobClient) Completed() []*pb.CompleteJobRequest {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), c.gw.completed...)
}

func (c *JobClient) Failed() []*pb.FailJobRequest {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), c.gw.failed...)
}

func (c *JobClient) Thrown() []*pb.ThrowErrorRequest {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), c.gw.thrown...)
}

func noRetry(context.Context, error) bool { return false }

// gateway implements the three job RPCs; any other call panics on the nil
// embedded client.
type gateway struct {
	pb.GatewayClient

	mu          sync.Mutex
	completeErr error
	completed   []*pb.CompleteJobRequest
	failed      []*pb.FailJobRequest
	thrown      []*pb.ThrowErrorRequest
}

func (g *gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.completeErr != nil {
		return nil, g.completeErr
	}
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}
