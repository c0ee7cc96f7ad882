// Package integrators advances the kinematic state of a rigid body under an
// acceleration that is held constant for one sub-step.
package integrators

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the kinematic state of one rigid body.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// Integrator advances a body by dt under acceleration acc.
type Integrator interface {
	Step(b Body, acc mgl64.Vec3, dt float64) Body
}

var registry = map[string]func() Integrator{
	"euler":      func() Integrator { return NewEuler() },
	"symplectic": func() Integrator { return NewSymplecticEuler() },
	"verlet":     func() Integrator { return NewVerlet() },
}

// Default is the scheme used when none is configured.
const Default = "symplectic"

// Get returns a new integrator by name.
func Get(name string) (Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// Names lists the registered integrators.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
