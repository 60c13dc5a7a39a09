package monitor

// Registry holds the active detectors in registration order. The order
// is operationally irrelevant but kept stable so checks and breach
// notifications are deterministic.
type Registry struct {
	detectors []*Detector
}

// NewRegistry creates an empty detector registry.
func NewRegistry() *Registry {
	return &Registry{
		detectors: make([]*Detector, 0),
	}
}

// Register adds a detector to the registry. A detector with the same
// resource name replaces the existing one, keeping its position.
func (r *Registry) Register(d *Detector) {
	for i, existing := range r.detectors {
		if existing.Name() == d.Name() {
			r.detectors[i] = d
			return
		}
	}
	r.detectors = append(r.detectors, d)
}

// Get returns a detector by resource name. The second return value
// indicates whether the detector was found.
func (r *Registry) Get(name string) (*Detector, bool) {
	for _, d := range r.detectors {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// All returns the registered detectors in registration order.
func (r *Registry) All() []*Detector {
	result := make([]*Detector, len(r.detectors))
	copy(result, r.detectors)
	return result
}

// Len returns the number of registered detectors.
func (r *Registry) Len() int {
	return len(r.detectors)
}
