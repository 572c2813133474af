package sampler

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidSpec is returned when a random variable cannot be sampled.
var ErrInvalidSpec = errors.New("invalid random variable spec")

// Distribution is the probability family of a random variable.
type Distribution int

const (
	Normal Distribution = iota
	Lognormal
)

func (d Distribution) String() string {
	switch d {
	case Normal:
		return "normal"
	case Lognormal:
		return "lognormal"
	default:
		return fmt.Sprintf("Distribution(%d)", int(d))
	}
}

// ParseDistribution maps a configuration name to a Distribution.
func ParseDistribution(s string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "gaussian":
		return Normal, nil
	case "lognormal", "log-normal":
		return Lognormal, nil
	default:
		return 0, fmt.Errorf("%w: unknown distribution %q", ErrInvalidSpec, s)
	}
}

// RandomVariableSpec describes one sampled input.
// For Lognormal, Mean and Std are those of the variable itself, not of its log.
type RandomVariableSpec struct {
	Name         string
	Distribution Distribution
	Mean         float64
	Std          float64
}

// Validate checks the spec can be sampled.
func (s RandomVariableSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpec)
	}
	if math.IsNaN(s.Mean) || math.IsInf(s.Mean, 0) || math.IsNaN(s.Std) || math.IsInf(s.Std, 0) {
		return fmt.Errorf("%w: %s: mean and std must be finite", ErrInvalidSpec, s.Name)
	}
	if s.Std < 0 {
		return fmt.Errorf("%w: %s: std must be >= 0, got %g", ErrInvalidSpec, s.Name, s.Std)
	}
	switch s.Distribution {
	case Normal:
	case Lognormal:
		if s.Mean <= 0 {
			return fmt.Errorf("%w: %s: lognormal mean must be > 0, got %g", ErrInvalidSpec, s.Name, s.Mean)
		}
	default:
		return fmt.Errorf("%w: %s: unknown distribution %v", ErrInvalidSpec, s.Name, s.Distribution)
	}
	return nil
}

// LogParams converts a target arithmetic mean and std into the
// parameters (mu, sigma) of the underlying normal distribution.
func LogParams(mean, std float64) (mu, sigma float64) {
	sigma = math.Sqrt(math.Log(1 + (std/mean)*(std/mean)))
	mu = math.Log(mean * mean / math.Sqrt(std*std+mean*mean))
	return mu, sigma
}

// ValidateAll validates every spec and rejects duplicate names.
func ValidateAll(specs []RandomVariableSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate variable %q", ErrInvalidSpec, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
