package cumulo

import (
	"context"
	"net/http"

	"github.com/cumulo-ai/cumulo-go/core"
)

// DeploymentsService manages dedicated model deployments: model replicas
// pinned to reserved accelerators with their own serving endpoint.
type DeploymentsService struct {
	dispatcher *core.Dispatcher
}

// DeploymentStatus is the lifecycle state of a deployment.
type DeploymentStatus string

const (
	DeploymentStatusDeploying DeploymentStatus = "deploying"
	DeploymentStatusReady     DeploymentStatus = "ready"
	DeploymentStatusFailed    DeploymentStatus = "failed"
)

// Deployment is a dedicated model deployment.
type Deployment struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	Name        string            `json:"name"`
	Model       string            `json:"model"`
	Accelerator string            `json:"accelerator"`
	Replicas    int               `json:"replicas"`
	Status      DeploymentStatus  `json:"status"`
	Endpoint    string            `json:"endpoint,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	CreatedAt   int64             `json:"created_at"`
}

// DeploymentList is a page of deployments.
type DeploymentList struct {
	Object  string       `json:"object"`
	Data    []Deployment `json:"data"`
	HasMore bool         `json:"has_more"`
}

// DeploymentCreateRequest provisions a deployment.
type DeploymentCreateRequest struct {
	Name        string            `json:"name"`
	Model       string            `json:"model"`
	Accelerator string            `json:"accelerator"`
	Replicas    int               `json:"replicas,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
}

// DeploymentUpdateRequest patches a deployment. Nil fields are left
// unchanged.
type DeploymentUpdateRequest struct {
	Replicas *int              `json:"replicas,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
}

// Create provisions a deployment and returns it, typically still deploying.
func (s *DeploymentsService) Create(ctx context.Context, req *DeploymentCreateRequest) (*Deployment, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/deployments",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	var dep Deployment
	if err := decodeJSON(resp, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

// Get retrieves a deployment.
func (s *DeploymentsService) Get(ctx context.Context, deploymentID string) (*Deployment, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/deployments/" + deploymentID,
	})
	if err != nil {
		return nil, err
	}
	var dep Deployment
	if err := decodeJSON(resp, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

// List returns the caller's deployments, newest first.
func (s *DeploymentsService) List(ctx context.Context, params *ListParams) (*DeploymentList, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/deployments" + params.encode(),
	})
	if err != nil {
		return nil, err
	}
	var list DeploymentList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Update patches a deployment's replica count or environment.
func (s *DeploymentsService) Update(ctx context.Context, deploymentID string, req *DeploymentUpdateRequest) (*Deployment, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPatch,
		Endpoint: "/deployments/" + deploymentID,
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	var dep Deployment
	if err := decodeJSON(resp, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

// Delete tears a deployment down.
func (s *DeploymentsService) Delete(ctx context.Context, deploymentID string) error {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodDelete,
		Endpoint: "/deployments/" + deploymentID,
	})
	if err != nil {
		return err
	}
	var confirmation deletionConfirmation
	if err := decodeJSON(resp, &confirmation); err != nil {
		return err
	}
	if !confirmation.Deleted {
		return &core.APIError{
			Status:  resp.StatusCode,
			Message: "server did not confirm deletion of " + deploymentID,
			Err:     core.ErrInvalidResponse,
		}
	}
	return nil
}
