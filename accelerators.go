package cumulo

import (
	"context"
	"net/http"

	"github.com/cumulo-ai/cumulo-go/core"
)

// AcceleratorsService reads the accelerator catalog: the GPU and TPU types
// available for sandboxes and deployments.
type AcceleratorsService struct {
	dispatcher *core.Dispatcher
}

// Accelerator is one catalog entry.
type Accelerator struct {
	ID             string  `json:"id"`
	Object         string  `json:"object"`
	Name           string  `json:"name"`
	MemoryGB       int     `json:"memory_gb"`
	HourlyPriceUSD float64 `json:"hourly_price_usd"`
	Available      bool    `json:"available"`
}

// AcceleratorList is the full catalog.
type AcceleratorList struct {
	Object  string        `json:"object"`
	Data    []Accelerator `json:"data"`
	HasMore bool          `json:"has_more"`
}

// List returns the accelerator catalog.
func (s *AcceleratorsService) List(ctx context.Context) (*AcceleratorList, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/accelerators",
	})
	if err != nil {
		return nil, err
	}
	var list AcceleratorList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves one accelerator type.
func (s *AcceleratorsService) Get(ctx context.Context, acceleratorID string) (*Accelerator, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/accelerators/" + acceleratorID,
	})
	if err != nil {
		return nil, err
	}
	var acc Accelerator
	if err := decodeJSON(resp, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
