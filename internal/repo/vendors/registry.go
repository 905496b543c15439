package vendors

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
)

// Registry holds the configured vendor clients and knows which one the
// orchestrator creates products on.
type Registry struct {
	clients map[Type]Client
	active  Type
	mu      sync.RWMutex
}

// NewRegistry creates a registry whose Active() resolves to the given type
// once that vendor is registered.
func NewRegistry(active Type) *Registry {
	return &Registry{
		clients: make(map[Type]Client),
		active:  active,
	}
}

// Register adds a vendor client. Registering the same type twice is an
// error.
func (r *Registry) Register(client Client) error {
	if client == nil {
		return fmt.Errorf("vendor client cannot be nil")
	}
	t := client.Type()
	if t == "" {
		return fmt.Errorf("vendor type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[t]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVendor, t)
	}
	r.clients[t] = client
	return nil
}

// Get retrieves a vendor client by type.
func (r *Registry) Get(t Type) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.clients[t]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrVendorNotFound, t)
	}
	return client, nil
}

// GetByName retrieves a vendor client by string name (case-insensitive).
func (r *Registry) GetByName(name string) (Client, error) {
	return r.Get(Type(strings.ToLower(strings.TrimSpace(name))))
}

// Active returns the client products are created on.
func (r *Registry) Active() (Client, error) {
	r.mu.RLock()
	active := r.active
	r.mu.RUnlock()

	if active == "" {
		return nil, ErrNoActiveVendor
	}
	return r.Get(active)
}

// List returns all registered vendor types.
func (r *Registry) List() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]Type, 0, len(r.clients))
	for t := range r.clients {
		types = append(types, t)
	}
	return types
}

// InitializeAll initializes every registered vendor. A failure on the
// active vendor is returned; failures elsewhere are logged and the vendor
// stays registered for later retries through HealthCheck.
func (r *Registry) InitializeAll(ctx context.Context) error {
	r.mu.RLock()
	clients := make(map[Type]Client, len(r.clients))
	for t, c := range r.clients {
		clients[t] = c
	}
	active := r.active
	r.mu.RUnlock()

	for t, client := range clients {
		if err := client.Initialize(ctx); err != nil {
			if t == active {
				return fmt.Errorf("initialize active vendor %s: %w", t, err)
			}
			log.Errorw(ctx, "Vendor initialization failed",
				"vendor", t,
				"error", err)
			continue
		}
		log.Infow(ctx, "Vendor initialized", "vendor", t)
	}
	return nil
}

// CleanupAll releases every vendor session. Failures are logged and
// swallowed.
func (r *Registry) CleanupAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for t, client := range r.clients {
		if err := client.Cleanup(ctx); err != nil {
			log.Warnw(ctx, "Vendor cleanup failed",
				"vendor", t,
				"error", err)
		}
	}
}

// HealthCheck probes every registered vendor and reports per-vendor
// outcomes. Initialize doubles as the probe since it is idempotent.
func (r *Registry) HealthCheck(ctx context.Context) map[Type]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[Type]error, len(r.clients))
	for t, client := range r.clients {
		err := client.Initialize(ctx)
		results[t] = err

		if err != nil {
			log.Errorw(ctx, "Vendor health check failed",
				"vendor", t,
				"error", err)
		} else {
			log.Debugw(ctx, "Vendor health check passed",
				"vendor", t)
		}
	}
	return results
}
