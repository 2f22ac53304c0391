package environment

import (
	"math/rand"

	"xcskit/internal/rule"
	"xcskit/internal/xcserr"
)

// Multiplexer is the boolean k-multiplexer, the classic single-step
// benchmark. The first addressBits of the state select one of the
// remaining 2^addressBits data bits; the correct action is the value of
// the selected bit.
type Multiplexer struct {
	addressBits int
	reward      float64
	rng         *rand.Rand
	state       rule.State
	done        bool
}

// NewMultiplexer builds a multiplexer with the given address width.
// Correct actions earn reward, wrong ones earn zero.
func NewMultiplexer(addressBits int, reward float64, rng *rand.Rand) (*Multiplexer, error) {
	if addressBits < 1 || addressBits > 16 {
		return nil, xcserr.OutOfRange("address bits", 1, 16, float64(addressBits))
	}
	if reward <= 0 {
		return nil, xcserr.OutOfRange("reward", 0, 1e18, reward)
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	m := &Multiplexer{addressBits: addressBits, reward: reward, rng: rng}
	m.Reset()
	return m, nil
}

func (m *Multiplexer) Name() string { return "multiplexer" }

// Bits is the total state width: addressBits plus 2^addressBits data bits.
func (m *Multiplexer) Bits() int { return m.addressBits + (1 << m.addressBits) }

func (m *Multiplexer) State() rule.State { return m.state.Clone() }

func (m *Multiplexer) AvailableActions() []int { return []int{0, 1} }

// ExecuteAction compares the action with the addressed data bit. Every
// problem instance is a single step.
func (m *Multiplexer) ExecuteAction(action int) (float64, error) {
	if action != 0 && action != 1 {
		return 0, xcserr.OutOfRange("action", 0, 1, float64(action))
	}
	m.done = true
	if action == m.correctAction() {
		return m.reward, nil
	}
	return 0, nil
}

func (m *Multiplexer) EndOfProblem() bool { return m.done }

// Reset draws a fresh random bit string.
func (m *Multiplexer) Reset() {
	state := make(rule.State, m.Bits())
	for i := range state {
		state[i] = float64(m.rng.Intn(2))
	}
	m.state = state
	m.done = false
}

func (m *Multiplexer) correctAction() int {
	address := 0
	for i := 0; i < m.addressBits; i++ {
		address = address<<1 | int(m.state[i])
	}
	return int(m.state[m.addressBits+address])
}
