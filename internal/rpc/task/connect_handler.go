package task

import (
	"context"
	"errors"
	"net/http"

	"github.com/bufbuild/connect-go"
	"github.com/google/uuid"

	"github.com/shubhamranswal/TechGuru/internal/observability"
	"github.com/shubhamranswal/TechGuru/internal/rpc"
	"github.com/shubhamranswal/TechGuru/internal/rpc/connectjson"
)

// ConnectRunTaskProcedure is the Connect route for the streaming task RPC.
const ConnectRunTaskProcedure = "/connect.tutor.v1.TutorService/RunTask"

// NewConnectHandler builds a Connect bidi stream handler for RunTask.
func NewConnectHandler(runner Runner, metrics *observability.Metrics) (string, http.Handler) {
	h := &connectRunHandler{runner: runner, metrics: metrics}
	return ConnectRunTaskProcedure, connect.NewBidiStreamHandler(ConnectRunTaskProcedure, h.handle, connect.WithCodec(connectjson.Codec{}))
}

type connectRunHandler struct {
	runner  Runner
	metrics *observability.Metrics
}

func (h *connectRunHandler) handle(ctx context.Context, stream *connect.BidiStream[rpc.RunTaskStreamRequest, rpc.RunTaskEvent]) error {
	h.metrics.IncActiveStreams("connect")
	defer h.metrics.DecActiveStreams("connect")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	first, err := stream.Receive()
	if err != nil {
		h.metrics.RecordTransportError("connect", "receive_first")
		return err
	}
	if first == nil || first.Run == nil {
		h.metrics.RecordTransportError("connect", "missing_run")
		return connect.NewError(connect.CodeInvalidArgument, errors.New("first message must include run payload"))
	}

	req := *first.Run
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.CorrelationID == "" {
		req.CorrelationID = req.SessionID + "-corr"
	}

	// Listen for cancellation messages from the client.
	go func() {
		for {
			msg, recvErr := stream.Receive()
			if recvErr != nil {
				if !errors.Is(recvErr, context.Canceled) {
					h.metrics.RecordTransportError("connect", "receive_stream")
				}
				cancel()
				return
			}
			if msg != nil && msg.Cancel {
				cancel()
				return
			}
		}
	}()

	httpReq := (&http.Request{}).WithContext(ctx)

	events, runErr := h.runner.Run(httpReq, req)
	if runErr != nil {
		h.metrics.RecordTransportError("connect", "runner_error")
		return connect.NewError(connect.CodeInvalidArgument, runErr)
	}

	for ev := range events {
		if err := stream.Send(&ev); err != nil {
			h.metrics.RecordTransportError("connect", "send")
			return err
		}
	}
	return nil
}
