package classifier

import "fmt"

// Factory creates an untrained classifier with its default hyperparameters.
type Factory func() Classifier

// Registry keeps a mapping from model identifiers to factories.
type Registry struct {
	factories map[string]Factory
	order     []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// DefaultRegistry registers the linear and tree variants, linear first.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(LogisticRegressionID, func() Classifier { return NewLogisticRegression() })
	r.Register(DecisionTreeID, func() Classifier { return NewDecisionTree() })
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	if _, ok := r.factories[name]; !ok {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
}

// Resolve returns a fresh classifier by identifier or an error if it is absent.
func (r *Registry) Resolve(name string) (Classifier, error) {
	if factory, ok := r.factories[name]; ok {
		return factory(), nil
	}
	return nil, fmt.Errorf("classifier %s is not registered", name)
}

// Names lists identifiers in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
