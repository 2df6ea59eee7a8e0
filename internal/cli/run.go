package cli

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bufbuild/connect-go"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"

	"github.com/shubhamranswal/TechGuru/internal/rpc"
	"github.com/shubhamranswal/TechGuru/internal/rpc/connectjson"
	taskrpc "github.com/shubhamranswal/TechGuru/internal/rpc/task"
)

// NewRunCmd wires the run command to stream task events from the daemon.
func NewRunCmd(opts *Options) *cobra.Command {
	var taskName string
	var language string
	var testCount int

	cmd := &cobra.Command{
		Use:   "run <source-file>",
		Short: "Run a tutoring task over a source file and stream the output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source file: %w", err)
			}
			if strings.TrimSpace(string(source)) == "" {
				return fmt.Errorf("source file is empty")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sessionID := fmt.Sprintf("cli-%d", time.Now().UnixNano())
			corrID := fmt.Sprintf("%s-%d", sessionID, time.Now().UnixNano())

			reqBody := rpc.RunTaskRequest{
				SessionID:     sessionID,
				CorrelationID: corrID,
				Task:          taskName,
				Source:        string(source),
				Language:      language,
				TestCount:     testCount,
			}

			baseURL := daemonURL(cfg.Server.Addr)
			switch strings.ToLower(strings.TrimSpace(cfg.Server.Transport)) {
			case "ndjson":
				return runNDJSON(ctx, cmd, baseURL+"/task/run", reqBody)
			default:
				return runConnect(ctx, cmd, baseURL+taskrpc.ConnectRunTaskProcedure, reqBody)
			}
		},
	}

	cmd.Flags().StringVar(&taskName, "task", "explain", "Task to run: explain, generate-tests or bug-hunt")
	cmd.Flags().StringVar(&language, "language", "", "Source language hint (default from config)")
	cmd.Flags().IntVar(&testCount, "tests", 0, "Number of tests for generate-tests (default from config)")
	return cmd
}

func daemonURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func runNDJSON(ctx context.Context, cmd *cobra.Command, url string, reqBody rpc.RunTaskRequest) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var evt rpc.RunTaskEvent
		if err := json.Unmarshal(scanner.Bytes(), &evt); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		if err := renderEvent(cmd, evt); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func runConnect(ctx context.Context, cmd *cobra.Command, url string, reqBody rpc.RunTaskRequest) error {
	client := connect.NewClient[rpc.RunTaskStreamRequest, rpc.RunTaskEvent](buildH2CClient(), url, connect.WithCodec(connectjson.Codec{}))
	stream := client.CallBidiStream(ctx)

	if err := stream.Send(&rpc.RunTaskStreamRequest{Run: &reqBody}); err != nil {
		return err
	}

	// propagate cancellation to the daemon.
	go func() {
		<-ctx.Done()
		_ = stream.Send(&rpc.RunTaskStreamRequest{Cancel: true, SessionID: reqBody.SessionID, CorrelationID: reqBody.CorrelationID})
		_ = stream.CloseRequest()
	}()

	for {
		evt, err := stream.Receive()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := renderEvent(cmd, *evt); err != nil {
			return err
		}
	}
	_ = stream.CloseRequest()
	return stream.CloseResponse()
}

func renderEvent(cmd *cobra.Command, evt rpc.RunTaskEvent) error {
	switch evt.Type {
	case "message":
		fmt.Fprintln(cmd.OutOrStdout(), evt.Message)
	case "chunk":
		fmt.Fprint(cmd.OutOrStdout(), evt.Chunk)
	case "result":
		if data, err := json.MarshalIndent(evt.Result, "", "  "); err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
	case "done":
		fmt.Fprintln(cmd.OutOrStdout(), "\n[done]")
	case "error":
		return fmt.Errorf("daemon error: %s", evt.Error)
	}
	return nil
}

func buildH2CClient() *http.Client {
	return &http.Client{
		Transport: &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		},
	}
}
