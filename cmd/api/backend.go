package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"outdoormatch/internal/adapter/api/handler"
	"outdoormatch/internal/adapter/repository"
	domainrepo "outdoormatch/internal/domain/repository"
	"outdoormatch/internal/infrastructure/firebase"
	"outdoormatch/internal/infrastructure/storage"
	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/config"
	"outdoormatch/pkg/logger"
)

type backend struct {
	users       domainrepo.UserRepository
	communities domainrepo.CommunityRepository
	chats       domainrepo.ChatRepository
	images      domainrepo.ImageStore
	verifier    usecase.TokenVerifier
	// devTokens is set with the memory backend only.
	devTokens   *firebase.DevTokenVerifier
	checks      []handler.HealthCheck
	closers     []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logger.Warn("Failed to close backend resource: %v", err)
		}
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.StoreBackend == config.BackendMemory {
		return openMemoryBackend(cfg)
	}
	return openFirestoreBackend(ctx, cfg)
}

// openMemoryBackend is for local runs only: state is lost on restart and
// tokens of the form dev-<uid> are accepted without verification.
func openMemoryBackend(cfg *config.Config) (*backend, error) {
	if !cfg.IsDevelopment() {
		return nil, fmt.Errorf("the memory backend is only available in development")
	}

	logger.Warn("Using in-memory store and dev tokens; data will not survive a restart")
	store := repository.NewMemoryStore()
	devTokens := firebase.NewDevTokenVerifier()
	return &backend{
		users:       store.Users(),
		communities: store.Communities(),
		chats:       store.Chats(),
		images:      storage.NewMemoryImageStore(),
		verifier:    devTokens,
		devTokens:   devTokens,
	}, nil
}

func openFirestoreBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	opts, err := firebase.ClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	b := &backend{
		users:       repository.NewFirestoreUserRepository(firestoreClient),
		communities: repository.NewFirestoreCommunityRepository(firestoreClient),
		chats:       repository.NewFirestoreChatRepository(firestoreClient),
		verifier:    firebase.NewFirebaseAuthClient(authClient),
		closers:     []func() error{firestoreClient.Close},
		checks: []handler.HealthCheck{{
			Name:  "firestore",
			Probe: firestoreProbe(firestoreClient),
		}},
	}

	if cfg.StorageBucket == "" {
		logger.Warn("STORAGE_BUCKET is not set; photo uploads are kept in memory")
		b.images = storage.NewMemoryImageStore()
		return b, nil
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to initialize Cloud Storage: %w", err)
	}
	b.images = storageClient
	b.closers = append(b.closers, storageClient.Close)
	return b, nil
}

func firestoreProbe(client *firestore.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := client.Collection("communities").Limit(1).Documents(ctx).Next()
		if err == iterator.Done {
			return nil
		}
		return err
	}
}
