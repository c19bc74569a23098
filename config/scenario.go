package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v3"

	"github.com/sarchlab/framesim/sim/scheduling"
	"github.com/sarchlab/framesim/sim/timer"
)

// ErrInvalidScenario is returned for scenario files that decode but describe
// something that cannot be scheduled.
var ErrInvalidScenario = errors.New("invalid scenario")

// Schedule kinds accepted in scenario files.
const (
	KindImmediate     = "immediate"
	KindTimeout       = "timeout"
	KindEverytime     = "everytime"
	KindEveryInterval = "every_interval"
	KindRepeat        = "repeat"
)

// A Scenario lists the walkers of a random walk.
//
//	name: demo
//	walkers:
//	  - name: slow
//	    schedule: every_interval
//	    timer:
//	      uniform: {lo: 1, hi: 10}
//	  - schedule: repeat
//	    count: 3
//	    priority: 2
//	    timer:
//	      weighted:
//	        - {value: 5, weight: 3}
//	        - {value: 10, weight: 1}
type Scenario struct {
	Name    string       `yaml:"name"`
	Walkers []WalkerSpec `yaml:"walkers"`
}

// WalkerSpec describes one walker.
type WalkerSpec struct {
	Name         string `yaml:"name"`
	Priority     uint8  `yaml:"priority"`
	ScheduleSpec `yaml:",inline"`
}

// ScheduleSpec describes a scheduling.Schedule.
type ScheduleSpec struct {
	Kind  string     `yaml:"schedule"`
	Count uint32     `yaml:"count"`
	Timer *TimerSpec `yaml:"timer"`
}

// TimerSpec describes a timer.Timer. Exactly one field must be set.
type TimerSpec struct {
	Fixed    *uint32      `yaml:"fixed"`
	Uniform  *UniformSpec `yaml:"uniform"`
	Weighted []ChoiceSpec `yaml:"weighted"`
}

// UniformSpec describes a timer.UniformRange.
type UniformSpec struct {
	Lo        uint32 `yaml:"lo"`
	Hi        uint32 `yaml:"hi"`
	Inclusive bool   `yaml:"inclusive"`
}

// ChoiceSpec describes one timer.Choice.
type ChoiceSpec struct {
	Value  uint32 `yaml:"value"`
	Weight int    `yaml:"weight"`
}

// LoadScenario reads and checks a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ParseScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// ParseScenario decodes and checks a scenario. Unknown fields are rejected.
func ParseScenario(r io.Reader) (*Scenario, error) {
	s := &Scenario{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks that every walker can be scheduled.
func (s *Scenario) Validate() error {
	if len(s.Walkers) == 0 {
		return fmt.Errorf("%w: no walker", ErrInvalidScenario)
	}

	for i, w := range s.Walkers {
		if _, err := w.Build(); err != nil {
			return fmt.Errorf("walker %d: %w", i, err)
		}
	}

	return nil
}

// DisplayName returns the walker name, or the schedule description when the
// walker has no name.
func (w WalkerSpec) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}

	s, err := w.Build()
	if err != nil {
		return w.Kind
	}

	return s.String()
}

// Build converts the schedule entry into a schedule.
func (s ScheduleSpec) Build() (scheduling.Schedule, error) {
	if s.Count != 0 && s.Kind != KindRepeat {
		return nil, fmt.Errorf("%w: count is only allowed with %s",
			ErrInvalidScenario, KindRepeat)
	}

	switch s.Kind {
	case KindImmediate, KindEverytime:
		if s.Timer != nil {
			return nil, fmt.Errorf("%w: %s does not take a timer",
				ErrInvalidScenario, s.Kind)
		}

		if s.Kind == KindImmediate {
			return scheduling.Immediate{}, nil
		}

		return scheduling.Everytime{}, nil
	case KindTimeout, KindEveryInterval, KindRepeat:
		return s.buildTimed()
	default:
		return nil, fmt.Errorf("%w: unknown schedule %q",
			ErrInvalidScenario, s.Kind)
	}
}

func (s ScheduleSpec) buildTimed() (scheduling.Schedule, error) {
	if s.Timer == nil {
		return nil, fmt.Errorf("%w: %s needs a timer",
			ErrInvalidScenario, s.Kind)
	}

	t, err := s.Timer.Build()
	if err != nil {
		return nil, err
	}

	switch s.Kind {
	case KindTimeout:
		return scheduling.Timeout{Timer: t}, nil
	case KindEveryInterval:
		return scheduling.EveryInterval{Timer: t}, nil
	}

	if s.Count == 0 {
		return nil, fmt.Errorf("%w: %w",
			ErrInvalidScenario, scheduling.ErrCannotFireEvent)
	}

	return scheduling.Repeat{Count: s.Count, Timer: t}, nil
}

// Build converts the timer entry into a timer and validates it.
func (t TimerSpec) Build() (timer.Timer, error) {
	var (
		set    int
		result timer.Timer
	)

	if t.Fixed != nil {
		set++
		result = timer.Fixed(*t.Fixed)
	}

	if t.Uniform != nil {
		set++
		result = timer.UniformRange{
			Lo:        timer.LocalTime(t.Uniform.Lo),
			Hi:        timer.LocalTime(t.Uniform.Hi),
			Inclusive: t.Uniform.Inclusive,
		}
	}

	if t.Weighted != nil {
		set++

		choices := make(timer.WeightedChoices, len(t.Weighted))
		for i, c := range t.Weighted {
			choices[i] = timer.Choice{
				Value:  timer.LocalTime(c.Value),
				Weight: c.Weight,
			}
		}

		result = choices
	}

	if set != 1 {
		return nil, fmt.Errorf(
			"%w: a timer needs exactly one of fixed, uniform, and weighted",
			ErrInvalidScenario)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	return result, nil
}
