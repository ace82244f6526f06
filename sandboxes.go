package cumulo

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cumulo-ai/cumulo-go/core"
)

// SandboxesService runs ephemeral compute sandboxes: short-lived container
// environments for executing untrusted or generated code.
type SandboxesService struct {
	dispatcher *core.Dispatcher
	logger     *slog.Logger
}

// SandboxStatus is the lifecycle state of a sandbox.
type SandboxStatus string

const (
	SandboxStatusPending    SandboxStatus = "pending"
	SandboxStatusRunning    SandboxStatus = "running"
	SandboxStatusTerminated SandboxStatus = "terminated"
)

// Sandbox is a running (or recently terminated) compute sandbox.
type Sandbox struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	Image       string            `json:"image"`
	Status      SandboxStatus     `json:"status"`
	Accelerator string            `json:"accelerator,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	CreatedAt   int64             `json:"created_at"`
	ExpiresAt   int64             `json:"expires_at,omitempty"`
}

// SandboxList is a page of sandboxes.
type SandboxList struct {
	Object  string    `json:"object"`
	Data    []Sandbox `json:"data"`
	HasMore bool      `json:"has_more"`
}

// SandboxCreateRequest provisions a sandbox.
type SandboxCreateRequest struct {
	Image          string            `json:"image"`
	Command        []string          `json:"command,omitempty"`
	Env            map[string]string `json:"env,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
	Accelerator    string            `json:"accelerator,omitempty"`
}

// ExecRequest runs a command inside a sandbox.
type ExecRequest struct {
	Command        []string `json:"command"`
	Stdin          string   `json:"stdin,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

// ExecResult is the outcome of one command execution.
type ExecResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
}

// Create provisions a sandbox and returns it, typically still pending.
func (s *SandboxesService) Create(ctx context.Context, req *SandboxCreateRequest) (*Sandbox, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/sandboxes",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	var sandbox Sandbox
	if err := decodeJSON(resp, &sandbox); err != nil {
		return nil, err
	}
	return &sandbox, nil
}

// Get retrieves a sandbox.
func (s *SandboxesService) Get(ctx context.Context, sandboxID string) (*Sandbox, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/sandboxes/" + sandboxID,
	})
	if err != nil {
		return nil, err
	}
	var sandbox Sandbox
	if err := decodeJSON(resp, &sandbox); err != nil {
		return nil, err
	}
	return &sandbox, nil
}

// List returns the caller's sandboxes, newest first.
func (s *SandboxesService) List(ctx context.Context, params *ListParams) (*SandboxList, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/sandboxes" + params.encode(),
	})
	if err != nil {
		return nil, err
	}
	var list SandboxList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Execute runs a command in the sandbox and waits for it to finish. A
// non-zero exit code is not an error; inspect ExecResult.ExitCode.
func (s *SandboxesService) Execute(ctx context.Context, sandboxID string, req *ExecRequest) (*ExecResult, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/sandboxes/" + sandboxID + "/exec",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	var result ExecResult
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Terminate stops a sandbox and releases its resources.
func (s *SandboxesService) Terminate(ctx context.Context, sandboxID string) error {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodDelete,
		Endpoint: "/sandboxes/" + sandboxID,
	})
	if err != nil {
		return err
	}
	return resp.Close()
}

// TerminateQuietly stops a sandbox, logging failures at debug level instead
// of returning them. Meant for defer-style cleanup where the sandbox may
// already be gone.
func (s *SandboxesService) TerminateQuietly(ctx context.Context, sandboxID string) {
	if err := s.Terminate(ctx, sandboxID); err != nil {
		s.logger.Debug("sandbox cleanup failed", "sandbox_id", sandboxID, "error", err)
	}
}
