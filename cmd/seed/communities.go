package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cobra"

	"outdoormatch/internal/adapter/repository"
	"outdoormatch/internal/domain/entity"
	domainrepo "outdoormatch/internal/domain/repository"
	"outdoormatch/internal/infrastructure/firebase"
	"outdoormatch/internal/seed"
	"outdoormatch/pkg/config"
	"outdoormatch/pkg/logger"
)

func communitiesCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "communities",
		Short: "Create the starter communities that do not exist yet",
		Long: `Creates each community from the embedded starter list, or from --file.
Communities that already exist are skipped, so the command can be re-run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runCommunities(ctx, cmd, file, dryRun)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with communities (default: built-in list)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and apply against an in-memory store only")
	return cmd
}

func runCommunities(ctx context.Context, cmd *cobra.Command, file string, dryRun bool) error {
	communities, err := loadCommunities(file)
	if err != nil {
		return err
	}

	repo, closeRepo, err := openCommunities(ctx, dryRun)
	if err != nil {
		return err
	}
	defer closeRepo()

	report, err := seed.Apply(ctx, repo, communities)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", len(report.Created), len(report.Skipped))
	return nil
}

func loadCommunities(file string) ([]*entity.Community, error) {
	if file == "" {
		return seed.DefaultCommunities()
	}
	return seed.LoadCommunities(file)
}

func openCommunities(ctx context.Context, dryRun bool) (domainrepo.CommunityRepository, func(), error) {
	if dryRun {
		return repository.NewMemoryStore().Communities(), func() {}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)
	if cfg.StoreBackend != config.BackendFirestore {
		return nil, nil, fmt.Errorf("STORE_BACKEND=%s keeps nothing between runs; use --dry-run", cfg.StoreBackend)
	}

	opts, err := firebase.ClientOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Firestore client: %v", err)
		}
	}
	return repository.NewFirestoreCommunityRepository(client), closeClient, nil
}
