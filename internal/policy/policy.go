// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package policy holds the engine's bound-check configuration (spec §6
// "Environment variables / configuration (core only)"), loadable from
// flags/environment via viper the way the rest of the pack configures
// long-running services.
package policy

import (
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Policy bounds every quantity the dispatch boundary enforces before any
// cryptographic backend operation runs (spec §8 property 6).
type Policy struct {
	MaxRecursionDepth    uint8  `mapstructure:"maxRecursionDepth"`
	MaxProofLength       uint32 `mapstructure:"maxProofLength"`
	MaxPublicInputs      uint16 `mapstructure:"maxPublicInputs"`
	LastLayerDegreeBound uint32 `mapstructure:"lastLayerDegreeBound"`
	StarkNumQueries      uint16 `mapstructure:"starkNumQueries"`
}

// Default returns the engine's default operating bounds (spec §6).
func Default() Policy {
	return Policy{
		MaxRecursionDepth:    8,
		MaxProofLength:       262_144,
		MaxPublicInputs:      256,
		LastLayerDegreeBound: 16,
		StarkNumQueries:      80,
	}
}

// Strict returns the tighter "strict profile" bounds called out alongside
// the defaults in spec §6.
func Strict() Policy {
	p := Default()
	p.MaxRecursionDepth = 4
	return p
}

// Load reads a Policy from flags, environment variables (prefixed UZKV_),
// and the defaults above, in that order of precedence — mirroring the
// pack's viper + pflag configuration idiom.
func Load(fs *flag.FlagSet) (Policy, error) {
	v := viper.New()
	d := Default()

	v.SetDefault("maxRecursionDepth", d.MaxRecursionDepth)
	v.SetDefault("maxProofLength", d.MaxProofLength)
	v.SetDefault("maxPublicInputs", d.MaxPublicInputs)
	v.SetDefault("lastLayerDegreeBound", d.LastLayerDegreeBound)
	v.SetDefault("starkNumQueries", d.StarkNumQueries)

	v.SetEnvPrefix("UZKV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Policy{}, err
		}
	}

	var p Policy
	if err := v.Unmarshal(&p); err != nil {
		return Policy{}, err
	}
	return p, nil
}
