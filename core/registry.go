package core

import "fmt"

// Registry maps a switch descriptor's Model to the Factory that
// builds a Driver for it.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry. Drivers register themselves
// with Register at program start (cmd/netmand wires the built-in
// ones); nothing in core depends on a concrete vendor package, so the
// registry can be extended without modifying core.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a model name to the factory that builds its driver.
// Registering the same model twice replaces the previous factory.
func (r *Registry) Register(model string, factory Factory) {
	r.factories[model] = factory
}

// New builds a Driver for desc.Model, or an error if no factory was
// registered for that model.
func (r *Registry) New(desc SwitchDescriptor) (Driver, error) {
	factory, ok := r.factories[desc.Model]
	if !ok {
		return nil, fmt.Errorf("netman: no driver registered for model %q", desc.Model)
	}
	return factory(desc), nil
}

// Models returns the list of model names with a registered factory.
func (r *Registry) Models() []string {
	models := make([]string, 0, len(r.factories))
	for m := range r.factories {
		models = append(models, m)
	}
	return models
}
