package stack

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ivplatonov/stackd/internal/device"
	"github.com/ivplatonov/stackd/internal/gate"
	enginestack "github.com/ivplatonov/stackd/internal/stack"
	"github.com/ivplatonov/stackd/internal/types"
)

// Provider exposes the shared stack device through the tool interface
type Provider struct {
	dev *device.Device
}

// NewProvider creates a new stack provider
func NewProvider(dev *device.Device) *Provider {
	return &Provider{dev: dev}
}

// Definition returns the service definition
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "stack",
		Name:        "Integer Stack",
		Description: "Shared LIFO integer buffer with bounded, reconfigurable capacity",
		Category:    types.CategoryStorage,
		Capabilities: []string{
			"push",
			"pop",
			"drain",
			"set_capacity",
			"query_capacity",
			"query_usage",
			"clear",
			"stats",
		},
		Tools: []types.Tool{
			{
				ID:          "stack.push",
				Name:        "Push",
				Description: "Push a signed 32-bit integer onto the stack",
				Parameters: []types.Parameter{
					{
						Name:        "value",
						Type:        "number",
						Description: "Integer value to push (32-bit signed)",
						Required:    true,
					},
				},
				Returns: "Success confirmation",
			},
			{
				ID:          "stack.pop",
				Name:        "Pop",
				Description: "Remove and return the most recently pushed value",
				Returns:     "Value, or an empty marker when nothing is stored",
			},
			{
				ID:          "stack.drain",
				Name:        "Drain",
				Description: "Pop every stored value, most recent first",
				Returns:     "Values in LIFO order",
			},
			{
				ID:          "stack.set_capacity",
				Name:        "Set Capacity",
				Description: "Reconfigure the maximum number of storable elements",
				Parameters: []types.Parameter{
					{
						Name:        "capacity",
						Type:        "number",
						Description: "New capacity; shrinking truncates to the oldest elements",
						Required:    true,
					},
				},
				Returns: "Success confirmation",
			},
			{
				ID:          "stack.capacity",
				Name:        "Query Capacity",
				Description: "Current maximum number of storable elements",
				Returns:     "Capacity (number)",
			},
			{
				ID:          "stack.usage",
				Name:        "Query Usage",
				Description: "Number of currently occupied slots",
				Returns:     "Usage (number)",
			},
			{
				ID:          "stack.clear",
				Name:        "Clear",
				Description: "Reset the occupied count to zero without releasing storage",
				Returns:     "Success confirmation",
			},
			{
				ID:          "stack.stats",
				Name:        "Statistics",
				Description: "Snapshot of the push/pop/overflow/underflow counters",
				Returns:     "Counter snapshot",
			},
		},
	}
}

// Execute handles stack tool execution
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "stack.push":
		return p.push(params)
	case "stack.pop":
		return p.pop()
	case "stack.drain":
		return p.drain()
	case "stack.set_capacity":
		return p.setCapacity(params)
	case "stack.capacity":
		return p.capacity()
	case "stack.usage":
		return p.usage()
	case "stack.clear":
		return p.clear()
	case "stack.stats":
		return p.stats()
	default:
		return errorResult(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) push(params map[string]interface{}) (*types.Result, error) {
	raw, ok := params["value"].(float64)
	if !ok {
		return errorResult("value is required")
	}
	if raw != math.Trunc(raw) || raw < math.MinInt32 || raw > math.MaxInt32 {
		return errorResult("value must be a 32-bit signed integer")
	}

	if err := p.dev.Push(int32(raw)); err != nil {
		return deviceError(err)
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"pushed": int32(raw),
		},
	}, nil
}

func (p *Provider) pop() (*types.Result, error) {
	v, ok, err := p.dev.Pop()
	if err != nil {
		return deviceError(err)
	}
	if !ok {
		return &types.Result{
			Success: true,
			Data: map[string]interface{}{
				"empty": true,
			},
		}, nil
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"value": v,
			"empty": false,
		},
	}, nil
}

func (p *Provider) drain() (*types.Result, error) {
	values, err := p.dev.Drain()
	if err != nil {
		return deviceError(err)
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"values": values,
			"count":  len(values),
		},
	}, nil
}

func (p *Provider) setCapacity(params map[string]interface{}) (*types.Result, error) {
	raw, ok := params["capacity"].(float64)
	if !ok {
		return errorResult("capacity is required")
	}
	if raw != math.Trunc(raw) || raw < 0 {
		return errorResult("capacity must be a non-negative integer")
	}

	if err := p.dev.Resize(uint(raw)); err != nil {
		return deviceError(err)
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"capacity": uint(raw),
		},
	}, nil
}

func (p *Provider) capacity() (*types.Result, error) {
	n, err := p.dev.Capacity()
	if err != nil {
		return deviceError(err)
	}
	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"capacity": n,
		},
	}, nil
}

func (p *Provider) usage() (*types.Result, error) {
	n, err := p.dev.Usage()
	if err != nil {
		return deviceError(err)
	}
	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"usage": n,
		},
	}, nil
}

func (p *Provider) clear() (*types.Result, error) {
	if err := p.dev.Clear(); err != nil {
		return deviceError(err)
	}
	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"cleared": true,
		},
	}, nil
}

func (p *Provider) stats() (*types.Result, error) {
	s, err := p.dev.Stats()
	if err != nil {
		return deviceError(err)
	}
	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"pushes":     s.Pushes,
			"pops":       s.Pops,
			"overflows":  s.Overflows,
			"underflows": s.Underflows,
		},
	}, nil
}

func deviceError(err error) (*types.Result, error) {
	switch {
	case errors.Is(err, gate.ErrUnavailable):
		return errorResult("device not present")
	case errors.Is(err, enginestack.ErrOverflow):
		return errorResult("stack is full")
	case errors.Is(err, enginestack.ErrExhausted):
		return errorResult("stack storage exhausted")
	default:
		return errorResult(err.Error())
	}
}

func errorResult(message string) (*types.Result, error) {
	return &types.Result{
		Success: false,
		Error:   stringPtr(message),
	}, fmt.Errorf("%s", message)
}

func stringPtr(s string) *string {
	return &s
}
