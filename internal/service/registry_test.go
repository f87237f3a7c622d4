package service

import (
	"context"
	"testing"

	"github.com/ivplatonov/stackd/internal/types"
)

type mockProvider struct {
	id string
}

func (m *mockProvider) Definition() types.Service {
	return types.Service{
		ID:           m.id,
		Name:         "Mock Service",
		Description:  "A mock service for testing",
		Category:     types.CategoryStorage,
		Capabilities: []string{"push", "pop"},
		Tools: []types.Tool{
			{
				ID:          m.id + ".test",
				Name:        "Test Tool",
				Description: "A test tool",
				Returns:     "string",
			},
		},
	}
}

func (m *mockProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"result": "success"},
	}, nil
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	p := &mockProvider{id: "test"}

	if err := r.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, ok := r.Get("test"); !ok {
		t.Error("Service should be registered")
	}
}

func TestRegisterEmptyID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockProvider{id: ""}); err == nil {
		t.Error("Register should reject an empty service ID")
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})
	r.Unregister("test")

	if _, ok := r.Get("test"); ok {
		t.Error("Service should be unregistered")
	}
}

func TestList(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test1"})
	r.Register(&mockProvider{id: "test2"})

	services := r.List(nil)
	if len(services) != 2 {
		t.Errorf("Expected 2 services, got %d", len(services))
	}

	cat := types.CategorySystem
	filtered := r.List(&cat)
	if len(filtered) != 0 {
		t.Errorf("Expected 0 system services, got %d", len(filtered))
	}
}

func TestExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})

	result, err := r.Execute(context.Background(), "test.anything", nil, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Error("Execute should succeed")
	}
}

func TestExecuteInvalidToolID(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Execute(context.Background(), "malformed", nil, nil); err == nil {
		t.Error("Execute should reject a tool ID without a service prefix")
	}

	if _, err := r.Execute(context.Background(), "missing.tool", nil, nil); err == nil {
		t.Error("Execute should fail for an unknown service")
	}
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})

	stats := r.Stats()
	if stats["total_services"] != 1 {
		t.Errorf("Expected 1 service, got %v", stats["total_services"])
	}
	if stats["total_tools"] != 1 {
		t.Errorf("Expected 1 tool, got %v", stats["total_tools"])
	}
}
