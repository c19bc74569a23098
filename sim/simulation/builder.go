package simulation

import (
	"github.com/rs/xid"

	"github.com/sarchlab/framesim/sim/hooking"
	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/scheduling"
)

// Builder can be used to build a Simulator.
type Builder[M Model[R, E], R, E any] struct {
	model    M
	hasModel bool
	recorder R
	source   rng.Source
	seed     uint64
	hooks    []hooking.Hook
}

// MakeBuilder creates a new builder.
func MakeBuilder[M Model[R, E], R, E any]() Builder[M, R, E] {
	return Builder[M, R, E]{}
}

// WithModel sets the model to simulate.
func (b Builder[M, R, E]) WithModel(model M) Builder[M, R, E] {
	b.model = model
	b.hasModel = true

	return b
}

// WithRecorder sets the recorder that is passed to every model callback.
func (b Builder[M, R, E]) WithRecorder(recorder R) Builder[M, R, E] {
	b.recorder = recorder
	return b
}

// WithSource sets the random source. It takes precedence over WithSeed.
func (b Builder[M, R, E]) WithSource(src rng.Source) Builder[M, R, E] {
	b.source = src
	return b
}

// WithSeed makes the simulator use an rng.Rand seeded with seed.
func (b Builder[M, R, E]) WithSeed(seed uint64) Builder[M, R, E] {
	b.seed = seed
	return b
}

// WithHook registers a hook on the simulator being built.
func (b Builder[M, R, E]) WithHook(hook hooking.Hook) Builder[M, R, E] {
	hooks := make([]hooking.Hook, len(b.hooks), len(b.hooks)+1)
	copy(hooks, b.hooks)
	b.hooks = append(hooks, hook)

	return b
}

func (b Builder[M, R, E]) parametersMustBeValid() {
	if !b.hasModel {
		panic("a model must be set with WithModel")
	}
}

// Build creates the simulator and initializes the model. Errors from the
// model's Initialize are returned as is.
func (b Builder[M, R, E]) Build() (*Simulator[M, R, E], error) {
	b.parametersMustBeValid()

	s := &Simulator[M, R, E]{
		id:        xid.New().String(),
		model:     b.model,
		recorder:  b.recorder,
		scheduler: scheduling.NewEventScheduler[E](),
		source:    b.source,
	}

	if s.source == nil {
		s.source = rng.New(b.seed)
	}

	err := s.selectDispatch()
	if err != nil {
		return nil, err
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	err = s.Initialize()
	if err != nil {
		return nil, err
	}

	return s, nil
}
