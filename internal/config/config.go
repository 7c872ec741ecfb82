package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrInvalidParam = errors.New("invalid parameter")

// Params holds every knob the simulation recognises. Rates are per
// simulated second.
type Params struct {
	Gamma        float64 // Order arrival rate
	Mu           float64 // Hazard rate for limit-order lifetime
	Beta         float64 // Probability an order is a buy
	Rho          float64 // Probability an order is a limit order
	LambdaLimit  float64 // Exponential rate for limit order sizes
	LambdaMarket float64 // Exponential rate for market order sizes
	Sigma        float64 // Max fractional halfspread for limit prices

	Seed      int64   // RNG seed
	MaxTime   float64 // Horizon in simulated seconds, 0 = unbounded
	MaxEvents uint64  // Horizon in dispatched events, 0 = unbounded
	SeedPrice float64 // Bootstrap reference price for an empty book

	MinSize uint64 // Smallest tradeable unit, sizes clamp up to this
	MaxSize uint64 // Largest order size, 0 = uncapped
}

func Default() Params {
	return Params{
		Gamma:        10.0,
		Mu:           0.1,
		Beta:         0.5,
		Rho:          0.7,
		LambdaLimit:  0.02,
		LambdaMarket: 0.05,
		Sigma:        0.05,
		Seed:         1,
		MaxTime:      600.0,
		SeedPrice:    100.0,
		MinSize:      1,
		MaxSize:      250,
	}
}

// LoadFromEnv loads parameters from a .env file (if present) and the
// environment. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Params {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	p := Default()
	loadFloat("SKOLL_GAMMA", &p.Gamma)
	loadFloat("SKOLL_MU", &p.Mu)
	loadFloat("SKOLL_BETA", &p.Beta)
	loadFloat("SKOLL_RHO", &p.Rho)
	loadFloat("SKOLL_LAMBDA_LIMIT", &p.LambdaLimit)
	loadFloat("SKOLL_LAMBDA_MARKET", &p.LambdaMarket)
	loadFloat("SKOLL_SIGMA", &p.Sigma)
	loadFloat("SKOLL_MAX_TIME", &p.MaxTime)
	loadFloat("SKOLL_SEED_PRICE", &p.SeedPrice)
	loadInt("SKOLL_SEED", &p.Seed)
	loadUint("SKOLL_MAX_EVENTS", &p.MaxEvents)
	loadUint("SKOLL_MIN_SIZE", &p.MinSize)
	loadUint("SKOLL_MAX_SIZE", &p.MaxSize)
	return p
}

func loadFloat(key string, dst *float64) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			*dst = v
		}
	}
}

func loadInt(key string, dst *int64) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			*dst = v
		}
	}
}

func loadUint(key string, dst *uint64) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			*dst = v
		}
	}
}

// Validate checks the full parameter set once at startup. Any failure
// is fatal to the run; the simulation never starts on bad input.
func (p Params) Validate() error {
	if p.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive, got %g", ErrInvalidParam, p.Gamma)
	}
	if p.Mu <= 0 {
		return fmt.Errorf("%w: mu must be positive, got %g", ErrInvalidParam, p.Mu)
	}
	if p.Beta < 0 || p.Beta > 1 {
		return fmt.Errorf("%w: beta must be in [0,1], got %g", ErrInvalidParam, p.Beta)
	}
	if p.Rho < 0 || p.Rho > 1 {
		return fmt.Errorf("%w: rho must be in [0,1], got %g", ErrInvalidParam, p.Rho)
	}
	if p.LambdaLimit <= 0 {
		return fmt.Errorf("%w: lambda-limit must be positive, got %g", ErrInvalidParam, p.LambdaLimit)
	}
	if p.LambdaMarket <= 0 {
		return fmt.Errorf("%w: lambda-market must be positive, got %g", ErrInvalidParam, p.LambdaMarket)
	}
	if p.Sigma < 0 {
		return fmt.Errorf("%w: sigma must be non-negative, got %g", ErrInvalidParam, p.Sigma)
	}
	if p.SeedPrice < 0 {
		return fmt.Errorf("%w: seed price must be non-negative, got %g", ErrInvalidParam, p.SeedPrice)
	}
	if p.MaxTime <= 0 && p.MaxEvents == 0 {
		return fmt.Errorf("%w: horizon required, set max time or max events", ErrInvalidParam)
	}
	if p.MinSize == 0 {
		return fmt.Errorf("%w: min size must be positive", ErrInvalidParam)
	}
	if p.MaxSize != 0 && p.MaxSize < p.MinSize {
		return fmt.Errorf("%w: max size %d below min size %d", ErrInvalidParam, p.MaxSize, p.MinSize)
	}
	return nil
}
