// Package registry holds the immutable table of RFP agents.
//
// A Registry is built once from a single list of descriptors. Each row carries
// the identifier, its human-readable description, the agent configuration and
// the constructed ADK agent, so an identifier can never exist without a
// description. After construction the table is read-only and every method is
// safe for concurrent use without locking.
package registry

import (
	"strings"

	"google.golang.org/adk/agent"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
)

// Identifier names a registered agent.
type Identifier string

// String returns the identifier as a plain string.
func (id Identifier) String() string { return string(id) }

// Descriptor is one row of the registry.
type Descriptor struct {
	ID          Identifier
	Description string
	Config      agentconfig.Config

	// Agent is the runtime agent built from Config. Nil is allowed for
	// registries used purely for listing.
	Agent agent.Agent
}

// Registry is an ordered, immutable mapping from identifier to descriptor.
type Registry struct {
	order []Identifier
	rows  map[Identifier]Descriptor
}

// New builds a registry from descriptors in registration order.
func New(descriptors ...Descriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, &RegistrationError{Reason: "no agents registered"}
	}

	r := &Registry{
		order: make([]Identifier, 0, len(descriptors)),
		rows:  make(map[Identifier]Descriptor, len(descriptors)),
	}

	for i, d := range descriptors {
		if strings.TrimSpace(string(d.ID)) == "" {
			return nil, &RegistrationError{Index: i, Reason: "identifier is empty"}
		}
		if _, dup := r.rows[d.ID]; dup {
			return nil, &RegistrationError{Index: i, ID: d.ID, Reason: "duplicate identifier"}
		}
		if strings.TrimSpace(d.Description) == "" {
			return nil, &RegistrationError{Index: i, ID: d.ID, Reason: "description is empty"}
		}
		if err := d.Config.Validate(); err != nil {
			return nil, &RegistrationError{Index: i, ID: d.ID, Reason: "invalid config", Err: err}
		}

		r.order = append(r.order, d.ID)
		r.rows[d.ID] = d
	}

	return r, nil
}

// Get returns the descriptor registered under id. Matching is exact and
// case-sensitive. Unknown ids yield a *NotFoundError.
func (r *Registry) Get(id string) (Descriptor, error) {
	d, ok := r.rows[Identifier(id)]
	if !ok {
		return Descriptor{}, &NotFoundError{ID: id, Available: r.ListIdentifiers()}
	}
	return d, nil
}

// ListIdentifiers returns every identifier in registration order. The slice is
// freshly allocated on each call.
func (r *Registry) ListIdentifiers() []Identifier {
	ids := make([]Identifier, len(r.order))
	copy(ids, r.order)
	return ids
}

// Describe returns the description of every registered agent.
func (r *Registry) Describe() map[Identifier]string {
	out := make(map[Identifier]string, len(r.rows))
	for id, d := range r.rows {
		out[id] = d.Description
	}
	return out
}

// Descriptors returns all rows in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rows[id])
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.order)
}
