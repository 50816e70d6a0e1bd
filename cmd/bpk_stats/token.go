package main

import (
	"fmt"

	"github.com/jonathan/bpk-stats/internal/config"
	"github.com/jonathan/bpk-stats/internal/server"
	"github.com/spf13/cobra"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin token for POST /reload",
	Long:  "Signs an admin token with admin_secret (or BPK_ADMIN_SECRET). Send it as 'Authorization: Bearer <token>'.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Subject recorded in the token")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	jwtConfig, err := config.NewJWTConfig(cfg)
	if err != nil {
		return err
	}
	if jwtConfig == nil {
		return fmt.Errorf("admin_secret is not configured (set BPK_ADMIN_SECRET)")
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
