package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathmuseum/museum/internal/auth"
	"github.com/pathmuseum/museum/internal/model"
	"github.com/pathmuseum/museum/internal/repository"
	"github.com/pathmuseum/museum/internal/service"
)

type identityCreator interface {
	CreateIdentity(ctx context.Context, email, passwordHash string) (*model.Identity, error)
}

type identityOptions struct {
	email      string
	password   string
	algo       string
	bcryptCost int
	format     string
}

type identityOutput struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func newIdentityCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage visitor identities",
	}

	opts := &identityOptions{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Register an identity without going through the signup page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			databaseURL, err := g.requireDatabaseURL()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			repo, err := repository.New(ctx, databaseURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer repo.Close()

			return createIdentity(ctx, cmd, repo, opts)
		},
	}

	create.Flags().StringVar(&opts.email, "email", "", "identity email")
	create.Flags().StringVar(&opts.password, "password", "", "identity password")
	create.Flags().StringVar(&opts.algo, "algo", auth.AlgoBcrypt, "password hash algorithm: bcrypt or argon2id")
	create.Flags().IntVar(&opts.bcryptCost, "bcrypt-cost", 10, "bcrypt cost")
	create.Flags().StringVar(&opts.format, "format", "plain", "output format: plain or json")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func (o *identityOptions) validate() error {
	if service.NormalizeEmail(o.email) == "" || o.password == "" {
		return errors.New("email and password are required")
	}
	switch o.format {
	case "plain", "json":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
	return nil
}

func createIdentity(ctx context.Context, cmd *cobra.Command, store identityCreator, opts *identityOptions) error {
	hasher, err := auth.NewHasher(opts.algo, opts.bcryptCost)
	if err != nil {
		return err
	}
	hash, err := hasher.Hash(opts.password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	identity, err := store.CreateIdentity(ctx, service.NormalizeEmail(opts.email), hash)
	if errors.Is(err, repository.ErrEmailExists) {
		return fmt.Errorf("identity %s already exists", service.NormalizeEmail(opts.email))
	}
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}

	out := identityOutput{
		ID:        identity.ID,
		Email:     identity.Email,
		CreatedAt: identity.CreatedAt.UTC().Format(time.RFC3339),
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	cmd.Printf("id:         %s\n", out.ID)
	cmd.Printf("email:      %s\n", out.Email)
	cmd.Printf("created_at: %s\n", out.CreatedAt)
	return nil
}
