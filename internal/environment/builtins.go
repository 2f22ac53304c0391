package environment

import "math/rand"

func init() {
	registerBuiltins()
}

// registerBuiltins fills the registry with the named built-in
// environments.
func registerBuiltins() {
	mustRegister("multiplexer-6", func(rng *rand.Rand) (Environment, error) {
		return NewMultiplexer(2, 1000, rng)
	})
	mustRegister("multiplexer-11", func(rng *rand.Rand) (Environment, error) {
		return NewMultiplexer(3, 1000, rng)
	})
	mustRegister("cart-pole", func(rng *rand.Rand) (Environment, error) {
		return NewCartPole(60, rng)
	})
}

func mustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}
