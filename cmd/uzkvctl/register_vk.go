// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxfi/uzkv"
)

func newRegisterVKCmd(newEngine func() (*uzkv.Verifier, *zap.Logger, error)) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "register-vk",
		Short: "Register a verification key from a CBOR manifest file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(manifestPath)
			if err != nil {
				return err
			}
			manifest, err := uzkv.DecodeVKManifest(raw)
			if err != nil {
				return fmt.Errorf("decode manifest: %w", err)
			}

			v, logger, err := newEngine()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			commitment, err := v.RegisterVK(manifest.ProofSystem, manifest.ProgramID, manifest.Blob)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", hex.EncodeToString(commitment[:]))
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a CBOR-encoded VK manifest (required)")
	cmd.MarkFlagRequired("manifest") //nolint:errcheck
	return cmd
}
