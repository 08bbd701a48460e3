package service

import (
	"time"

	"todolist/internal/core/port"
	"todolist/internal/core/telemetry"
	"todolist/internal/core/util"
	"todolist/internal/core/validation"
)

type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

type Option func(*options)

type options struct {
	telemetry    port.Telemetry
	validator    port.Validator
	clock        Clock
	passwordCost int
}

func WithTelemetry(t port.Telemetry) Option {
	return func(o *options) {
		if t != nil {
			o.telemetry = t
		}
	}
}

func WithValidator(v port.Validator) Option {
	return func(o *options) {
		if v != nil {
			o.validator = v
		}
	}
}

func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithPasswordCost sets the bcrypt work factor used for new hashes.
func WithPasswordCost(cost int) Option {
	return func(o *options) {
		o.passwordCost = cost
	}
}

func buildOptions(opts []Option) options {
	o := options{
		telemetry:    telemetry.NewNoOpProbe(),
		validator:    validation.New(),
		clock:        SystemClock,
		passwordCost: util.DefaultPasswordCost,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
