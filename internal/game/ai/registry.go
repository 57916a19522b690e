package ai

import "fmt"

// Registry indexes tactics domains by ID.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	domains map[string]*Domain
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{domains: make(map[string]*Domain)}
}

// Register stores domain.
//
// Precondition: domain must not be nil.
// Postcondition: Returns an error on domain ID collision.
func (r *Registry) Register(domain *Domain) error {
	if _, exists := r.domains[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.domains[domain.ID] = domain
	return nil
}

// Domain returns the domain for id, or false if not registered.
func (r *Registry) Domain(id string) (*Domain, bool) {
	d, ok := r.domains[id]
	return d, ok
}

// Len returns the number of registered domains.
func (r *Registry) Len() int { return len(r.domains) }

// LoadRegistry loads every domain in dir into a new Registry.
func LoadRegistry(dir string) (*Registry, error) {
	domains, err := LoadDomains(dir)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, d := range domains {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
