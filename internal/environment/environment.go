// Package environment defines the problem interface the training loop
// drives, plus a registry of named built-in environments.
package environment

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"xcskit/internal/rule"
)

var (
	ErrEnvironmentExists   = errors.New("environment already registered")
	ErrEnvironmentNotFound = errors.New("environment not found")
)

// Environment is a reinforcement problem. State and AvailableActions
// describe the current situation; ExecuteAction advances it and returns
// the reward. A problem instance lasts until EndOfProblem reports true,
// after which Reset starts a fresh instance.
type Environment interface {
	Name() string
	State() rule.State
	AvailableActions() []int
	ExecuteAction(action int) (float64, error)
	EndOfProblem() bool
	Reset()
}

// Factory builds a fresh environment instance drawing randomness from rng.
type Factory func(rng *rand.Rand) (Environment, error)

var environmentRegistry = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{
	m: make(map[string]Factory),
}

// Register adds a named environment factory. Registering the same name
// twice is an error.
func Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("environment name is required")
	}
	if factory == nil {
		return errors.New("environment factory is required")
	}

	environmentRegistry.mu.Lock()
	defer environmentRegistry.mu.Unlock()

	if _, exists := environmentRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrEnvironmentExists, name)
	}
	environmentRegistry.m[name] = factory
	return nil
}

// Resolve instantiates the named environment.
func Resolve(name string, rng *rand.Rand) (Environment, error) {
	environmentRegistry.mu.RLock()
	factory, ok := environmentRegistry.m[name]
	environmentRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEnvironmentNotFound, name)
	}
	return factory(rng)
}

// List returns the registered environment names in ascending order.
func List() []string {
	environmentRegistry.mu.RLock()
	defer environmentRegistry.mu.RUnlock()

	names := make([]string, 0, len(environmentRegistry.m))
	for name := range environmentRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetRegistryForTests() {
	environmentRegistry.mu.Lock()
	defer environmentRegistry.mu.Unlock()
	environmentRegistry.m = make(map[string]Factory)
}
