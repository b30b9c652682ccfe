// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command uzkvctl is a thin local CLI for registering verification keys
// and verifying a proof file against this module's public API (spec §C
// item 10): it is not a network-facing server, just the one concrete
// external caller shown in this repo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxfi/uzkv"
	"github.com/luxfi/uzkv/internal/obs"
	"github.com/luxfi/uzkv/internal/policy"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var strict bool
	var dbPath string
	var verbose bool

	root := &cobra.Command{
		Use:   "uzkvctl",
		Short: "Register verification keys and verify proofs against uzkv",
	}
	root.PersistentFlags().BoolVar(&strict, "strict", false, "use the strict bound-check profile")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "optional Pebble database path for a durable VK registry")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	newEngine := func() (*uzkv.Verifier, *zap.Logger, error) {
		logger, err := buildLogger(verbose)
		if err != nil {
			return nil, nil, err
		}

		pol := policy.Default()
		if strict {
			pol = policy.Strict()
		}

		opts := []uzkv.Option{uzkv.WithPolicy(pol), uzkv.WithLogger(logger)}
		if dbPath != "" {
			store, err := openStore(dbPath)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, uzkv.WithStore(store))
		}

		v, err := uzkv.New(opts...)
		if err != nil {
			return nil, nil, err
		}
		return v, logger, nil
	}

	root.AddCommand(newRegisterVKCmd(newEngine))
	root.AddCommand(newVerifyCmd(newEngine))
	root.AddCommand(newEstimateCostCmd())
	return root
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return obs.NewDevelopment()
	}
	return obs.New()
}
