package rpc

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/grpc"

	"github.com/funvibe/funlint/internal/issue"
)

const (
	serviceName   = "funlint.driver.rpc.WorkerService"
	analyzeMethod = "/" + serviceName + "/Analyze"
)

// AnalyzeFunc performs a worker's actual parse-then-analyze pass (§4.3)
// over allFiles, restricted at the analysis phase to ownedFiles, and
// returns every diagnostic produced for its owned subset.
type AnalyzeFunc func(ctx context.Context, allFiles, ownedFiles []string) ([]issue.IssueInstance, error)

type workerServer struct {
	schema *schema
	fn     AnalyzeFunc
}

func (w *workerServer) analyze(stream grpc.ServerStream) error {
	req := w.schema.newPartitionRequest()
	if err := stream.RecvMsg(req); err != nil {
		return fmt.Errorf("rpc: receiving partition request: %w", err)
	}
	allFiles, ownedFiles := w.schema.decodePartitionRequest(req)

	results, err := w.fn(stream.Context(), allFiles, ownedFiles)
	if err != nil {
		return err
	}
	for _, ii := range results {
		if err := stream.SendMsg(w.schema.encodeIssue(ii)); err != nil {
			return fmt.Errorf("rpc: streaming issue: %w", err)
		}
	}
	return nil
}

// NewServiceDesc builds the gRPC ServiceDesc + bound server a worker
// process registers on its grpc.Server, wiring fn as the RPC's actual
// analysis work.
func NewServiceDesc(fn AnalyzeFunc) (*grpc.ServiceDesc, interface{}, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, nil, err
	}
	ws := &workerServer{schema: s, fn: fn}
	desc := &grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*interface{})(nil),
		Streams: []grpc.StreamDesc{
			{
				StreamName: "Analyze",
				Handler: func(srv interface{}, stream grpc.ServerStream) error {
					return srv.(*workerServer).analyze(stream)
				},
				ServerStreams: true,
			},
		},
	}
	return desc, ws, nil
}

// Analyze dials cc (already connected to a worker subprocess's Unix
// socket listener) and runs the Analyze RPC: sends one PartitionRequest,
// then drains the IssueMessage stream until the worker closes it.
func Analyze(ctx context.Context, cc grpc.ClientConnInterface, allFiles, ownedFiles []string) ([]issue.IssueInstance, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}
	stream, err := cc.NewStream(ctx, &grpc.StreamDesc{StreamName: "Analyze", ServerStreams: true}, analyzeMethod)
	if err != nil {
		return nil, fmt.Errorf("rpc: opening stream: %w", err)
	}
	if err := stream.SendMsg(s.encodePartitionRequest(allFiles, ownedFiles)); err != nil {
		return nil, fmt.Errorf("rpc: sending partition request: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("rpc: closing send side: %w", err)
	}

	var out []issue.IssueInstance
	for {
		msg := s.newIssueMessage()
		err := stream.RecvMsg(msg)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rpc: receiving issue: %w", err)
		}
		out = append(out, s.decodeIssue(msg))
	}
	return out, nil
}
