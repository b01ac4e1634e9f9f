package firebase

import (
	"context"
	"fmt"
	"os"

	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"outdoormatch/pkg/config"
	"outdoormatch/pkg/logger"
)

// ClientOptions picks service account credentials: inline JSON first, then
// a file path. With neither, application default credentials apply.
func ClientOptions(cfg *config.Config) ([]option.ClientOption, error) {
	if cfg.CredentialsJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))}, nil
	}

	if cfg.CredentialsPath != "" {
		if _, err := os.Stat(cfg.CredentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account file does not exist: %s", cfg.CredentialsPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.CredentialsPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsPath)}, nil
	}

	logger.Info("Using application default credentials")
	return nil, nil
}

func NewApp(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*fbapp.App, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	return app, nil
}
