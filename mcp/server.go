package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/remodern-labs/remodern/tool"
)

// maxLineBytes bounds a single request line. Tool arguments carry file paths
// and template content, not bulk payloads.
const maxLineBytes = 4 << 20

// ServerConfig configures a protocol server instance.
type ServerConfig struct {
	Registry *tool.Registry
	Reader   io.Reader
	Writer   io.Writer
	Info     ServerInfo
	Logger   *slog.Logger
}

// Server adapts a line-delimited JSON-RPC stream to registry calls. Each
// Server owns one stream and handles it synchronously: a request is fully
// processed, response written, before the next line is read. Multiple Server
// instances may run concurrently over one shared registry.
type Server struct {
	registry *tool.Registry
	reader   io.Reader
	logger   *slog.Logger
	info     ServerInfo

	mu     sync.Mutex
	writer io.Writer
}

// NewServer creates a protocol server over the given stream pair.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("mcp: registry is required")
	}
	if cfg.Reader == nil || cfg.Writer == nil {
		return nil, errors.New("mcp: reader and writer are required")
	}
	info := cfg.Info
	if strings.TrimSpace(info.Name) == "" {
		info.Name = "remodern"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		registry: cfg.Registry,
		reader:   cfg.Reader,
		writer:   cfg.Writer,
		logger:   logger,
		info:     info,
	}, nil
}

// Run reads requests line by line until the input stream ends. A malformed
// line, an unknown method, or a failing tool never terminates the loop; end
// of input ends it cleanly.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.handleLine(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mcp: read request stream: %w", err)
	}
	s.logger.Debug("request stream ended")
	return nil
}

// handleLine processes one request line and writes exactly one response. A
// panic anywhere in dispatch is converted to an internal error response.
func (s *Server) handleLine(ctx context.Context, line string) {
	var req request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.logger.Warn("malformed request line", "error", err)
		s.writeError(nil, codeParseError, "parse error: invalid request line")
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("request handler panicked", "method", req.Method, "panic", rec)
			s.writeError(req.ID, codeInternalError, "internal server error")
		}
	}()

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	default:
		s.writeError(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req request) {
	s.writeResult(req.ID, InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: true},
		},
		ServerInfo: s.info,
	})
}

func (s *Server) handleToolsList(req request) {
	tools := s.registry.Tools()
	descriptors := make([]ToolDescriptor, 0, len(tools))
	for _, t := range tools {
		descriptors = append(descriptors, ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	s.writeResult(req.ID, ToolsListResult{Tools: descriptors})
}

func (s *Server) handleToolsCall(ctx context.Context, req request) {
	var params ToolsCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.writeError(req.ID, codeInvalidParams, "invalid tools/call params")
			return
		}
	}
	if strings.TrimSpace(params.Name) == "" {
		s.writeError(req.ID, codeInvalidParams, "tools/call requires a tool name")
		return
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	result, err := s.registry.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		// Contract-level failures (unknown tool, rejected arguments,
		// untyped execution errors) are protocol errors; a failed Result
		// below stays a protocol success.
		s.logger.Warn("tool call failed", "tool", params.Name, "error", err)
		s.writeError(req.ID, rpcCodeFor(err), err.Error())
		return
	}

	if !result.Success {
		s.writeResult(req.ID, ToolsCallResult{
			Content: TextContent("Error: " + result.ErrorMessage),
			IsError: true,
		})
		return
	}

	s.writeResult(req.ID, ToolsCallResult{
		Content: TextContent(result.Content),
		Meta:    result.Metadata,
	})
}

// rpcCodeFor maps the tool error taxonomy onto JSON-RPC error codes.
func rpcCodeFor(err error) int {
	switch tool.ErrorCode(err) {
	case tool.CodeToolNotFound, tool.CodeInvalidArgs:
		return codeInvalidParams
	default:
		return codeInternalError
	}
}

func (s *Server) writeResult(id json.RawMessage, result any) {
	s.writeResponse(response{JSONRPC: jsonRPCVersion, ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	s.writeResponse(response{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	})
}

func (s *Server) writeResponse(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		// A result that cannot marshal must still produce a response line.
		s.logger.Error("encode response", "error", err)
		data, _ = json.Marshal(response{
			JSONRPC: jsonRPCVersion,
			ID:      resp.ID,
			Error:   &RPCError{Code: codeInternalError, Message: "failed to encode response"},
		})
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(data); err != nil {
		s.logger.Error("write response", "error", err)
	}
}
