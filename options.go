// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package sthreads

import "time"

const (
	// defaultSlice is the default preemption slice, per spec.md §4.3 step 4.
	defaultSlice = 15 * time.Millisecond
	// defaultStackHint is retained as a diagnostic sizing knob only; Go
	// manages goroutine stacks itself. Mirrors spec.md §3's "100x the
	// platform's default signal-stack size" recommendation in spirit.
	defaultStackHint = 64 * 1024
)

// runtimeOptions holds configuration for a Runtime.
type runtimeOptions struct {
	slice     time.Duration
	stackHint int
	logger    Logger
}

// Option configures a Runtime at Init time.
type Option interface {
	applyRuntime(*runtimeOptions) error
}

type optionFunc func(*runtimeOptions) error

func (f optionFunc) applyRuntime(opts *runtimeOptions) error {
	return f(opts)
}

// WithSlice sets the preemption slice duration. The default is 15ms,
// matching spec.md's recommended interval.
func WithSlice(d time.Duration) Option {
	return optionFunc(func(opts *runtimeOptions) error {
		if d <= 0 {
			return WrapError("WithSlice", ErrInvalidOption)
		}
		opts.slice = d
		return nil
	})
}

// WithStackHint records a diagnostic stack-size hint in bytes. It has no
// effect on scheduling; Go goroutine stacks grow on demand.
func WithStackHint(bytes int) Option {
	return optionFunc(func(opts *runtimeOptions) error {
		opts.stackHint = bytes
		return nil
	})
}

// WithLogger overrides the diagnostic logger used by a single Runtime
// instance, leaving the package-level default untouched.
func WithLogger(l Logger) Option {
	return optionFunc(func(opts *runtimeOptions) error {
		opts.logger = l
		return nil
	})
}

// resolveOptions applies Option instances over the defaults.
func resolveOptions(opts []Option) (*runtimeOptions, error) {
	cfg := &runtimeOptions{
		slice:     defaultSlice,
		stackHint: defaultStackHint,
		logger:    defaultLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRuntime(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
