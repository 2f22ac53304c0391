package environment

import (
	"math"
	"math/rand"

	"xcskit/internal/rule"
	"xcskit/internal/xcserr"
)

// CartPole is a simplified 1D balancing control task. The state is the
// cart position and velocity; the actions push left or right with unit
// force. Reward grows as the cart stays near the origin, and the problem
// ends when the cart leaves the track or the step budget runs out.
type CartPole struct {
	maxSteps int
	rng      *rand.Rand

	x, v  float64
	steps int
	done  bool
}

const (
	cartPoleDt       = 0.1
	cartPoleKPos     = 0.45
	cartPoleKVel     = 0.15
	cartPoleForceK   = 1.25
	cartPoleMaxForce = 1.0
	cartPoleTrack    = 2.0
	cartPoleMaxStart = 0.8
)

func NewCartPole(maxSteps int, rng *rand.Rand) (*CartPole, error) {
	if maxSteps < 1 {
		return nil, xcserr.OutOfRange("max steps", 1, 1e9, float64(maxSteps))
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	c := &CartPole{maxSteps: maxSteps, rng: rng}
	c.Reset()
	return c, nil
}

func (c *CartPole) Name() string { return "cart-pole" }

func (c *CartPole) State() rule.State { return rule.State{c.x, c.v} }

func (c *CartPole) AvailableActions() []int { return []int{0, 1} }

// ExecuteAction applies one euler step of the cart dynamics. Action 0
// pushes left, action 1 pushes right.
func (c *CartPole) ExecuteAction(action int) (float64, error) {
	if action != 0 && action != 1 {
		return 0, xcserr.OutOfRange("action", 0, 1, float64(action))
	}
	force := -cartPoleMaxForce
	if action == 1 {
		force = cartPoleMaxForce
	}

	acc := cartPoleForceK*force - cartPoleKPos*c.x - cartPoleKVel*c.v
	c.v += acc * cartPoleDt
	c.x += c.v * cartPoleDt
	c.steps++

	if math.Abs(c.x) > cartPoleTrack || c.steps >= c.maxSteps {
		c.done = true
	}
	return 1.0 - math.Min(1.0, math.Abs(c.x)/cartPoleTrack), nil
}

func (c *CartPole) EndOfProblem() bool { return c.done }

// Reset places the cart at a random start position with zero velocity.
func (c *CartPole) Reset() {
	c.x = (c.rng.Float64()*2 - 1) * cartPoleMaxStart
	c.v = 0
	c.steps = 0
	c.done = false
}
