// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxfi/uzkv"
	"github.com/luxfi/uzkv/internal/verr"
)

func newVerifyCmd(newEngine func() (*uzkv.Verifier, *zap.Logger, error)) *cobra.Command {
	var proofPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a UniversalProof byte file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(proofPath)
			if err != nil {
				return err
			}

			v, logger, err := newEngine()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			outcome, err := v.Verify(raw)
			if err != nil {
				var ve *verr.Error
				if errors.As(err, &ve) {
					logger.Warn("verification error", zap.String("kind", string(ve.Kind)))
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "accepted=%t estimated_total=%d\n", outcome.Accepted, outcome.Cost.EstimatedTotal)
			if !outcome.Accepted {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&proofPath, "proof", "", "path to a UniversalProof byte file (required)")
	cmd.MarkFlagRequired("proof") //nolint:errcheck
	return cmd
}

var errRejected = errors.New("proof rejected")
