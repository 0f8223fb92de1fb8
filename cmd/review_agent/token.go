package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-reviewer/internal/config"
	"github.com/jonathan/portfolio-reviewer/internal/server"
)

var tokenIdentity string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate an API bearer token for an identity",
	Long:  `Generate a signed JWT for the given identity UUID, using JWT_SECRET from the environment. A fresh identity is generated when none is given.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenIdentity, "identity", "", "Identity UUID to embed in the token (default: generate one)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	identity := uuid.New()
	if tokenIdentity != "" {
		parsed, err := uuid.Parse(tokenIdentity)
		if err != nil {
			return fmt.Errorf("invalid identity UUID: %w", err)
		}
		identity = parsed
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(identity)
	if err != nil {
		return err
	}

	fmt.Printf("identity: %s\ntoken: %s\n", identity, token)
	return nil
}
