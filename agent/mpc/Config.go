package mpc

import (
	"fmt"
)

// Strategy determines how candidate action sequences are sampled
type Strategy string

const (
	// Random samples every candidate sequence uniformly from the
	// action bounds
	Random Strategy = "random"

	// CEM iteratively refines a Gaussian sampling distribution
	// towards high-return sequences using the cross-entropy method
	CEM Strategy = "cem"
)

// Default CEM hyperparameters
const (
	DefaultCEMIterations int     = 4
	DefaultCEMNumElites  int     = 5
	DefaultCEMAlpha      float64 = 1.0
)

// Config represents a configuration for the MPC policy
type Config struct {
	Strategy     Strategy
	Horizon      int // timesteps per candidate sequence
	NumSequences int // candidates per sampling pass

	// Cross-entropy method hyperparameters, ignored when Strategy is
	// Random
	CEMIterations int
	CEMNumElites  int
	CEMAlpha      float64 // smoothing factor in [0, 1]
}

// NewConfig returns a Config with the given sampling strategy, horizon,
// and number of candidate sequences, using default CEM hyperparameters
func NewConfig(strategy Strategy, horizon, numSequences int) Config {
	return Config{
		Strategy:      strategy,
		Horizon:       horizon,
		NumSequences:  numSequences,
		CEMIterations: DefaultCEMIterations,
		CEMNumElites:  DefaultCEMNumElites,
		CEMAlpha:      DefaultCEMAlpha,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Strategy != Random && c.Strategy != CEM {
		return fmt.Errorf("validate: sampling strategy %q must be one of "+
			"(%q, %q)", c.Strategy, Random, CEM)
	}
	if c.Horizon < 1 {
		return fmt.Errorf("validate: horizon must be positive \n\thave(%v)",
			c.Horizon)
	}
	if c.NumSequences < 1 {
		return fmt.Errorf("validate: number of sequences must be positive "+
			"\n\thave(%v)", c.NumSequences)
	}

	if c.Strategy == CEM {
		if c.CEMIterations < 1 {
			return fmt.Errorf("validate: cem iterations must be positive "+
				"\n\thave(%v)", c.CEMIterations)
		}
		if c.CEMNumElites < 1 {
			return fmt.Errorf("validate: cem elites must be positive "+
				"\n\thave(%v)", c.CEMNumElites)
		}
		if c.CEMNumElites > c.NumSequences {
			return fmt.Errorf("validate: cem elites cannot exceed the "+
				"number of sequences \n\twant(<= %v) \n\thave(%v)",
				c.NumSequences, c.CEMNumElites)
		}
		if c.CEMAlpha < 0.0 || c.CEMAlpha > 1.0 {
			return fmt.Errorf("validate: cem alpha must be in [0, 1] "+
				"\n\thave(%v)", c.CEMAlpha)
		}
	}

	return nil
}
