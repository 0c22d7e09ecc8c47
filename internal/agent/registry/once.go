package registry

import "sync"

// Once builds a registry lazily on first use. Concurrent callers block until
// the single build finishes and then all observe the same registry or the
// same error.
type Once struct {
	build func() (*Registry, error)

	once sync.Once
	reg  *Registry
	err  error
}

// NewOnce returns a lazy registry backed by build.
func NewOnce(build func() (*Registry, error)) *Once {
	return &Once{build: build}
}

// Get returns the registry, constructing it on the first call.
func (o *Once) Get() (*Registry, error) {
	o.once.Do(func() {
		o.reg, o.err = o.build()
	})
	return o.reg, o.err
}
