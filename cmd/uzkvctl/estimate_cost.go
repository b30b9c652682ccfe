// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/uzkv/internal/cost"
)

func newEstimateCostCmd() *cobra.Command {
	var system string
	var publicInputs uint16
	var proofLength uint32

	cmd := &cobra.Command{
		Use:   "estimate-cost",
		Short: "Print the cost record for a proof system, public-input count, and proof length",
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := parseSystem(system)
			if err != nil {
				return err
			}
			record := cost.Estimate(sys, publicInputs, proofLength)
			fmt.Fprintf(cmd.OutOrStdout(), "base=%d per_input=%d per_byte=%d estimated_total=%d\n",
				record.Base, record.PerInput, record.PerByte, record.EstimatedTotal)
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "groth16, plonk, or stark (required)")
	cmd.Flags().Uint16Var(&publicInputs, "public-inputs", 0, "public input count")
	cmd.Flags().Uint32Var(&proofLength, "proof-length", 0, "proof payload length in bytes")
	cmd.MarkFlagRequired("system") //nolint:errcheck
	return cmd
}

func parseSystem(s string) (cost.ProofSystem, error) {
	switch s {
	case "groth16":
		return cost.SystemGroth16, nil
	case "plonk":
		return cost.SystemPLONK, nil
	case "stark":
		return cost.SystemSTARK, nil
	default:
		return 0, fmt.Errorf("unknown proof system %q", s)
	}
}
