// Package seed loads the starter communities into a community store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
)

//go:embed communities.yaml
var defaultCommunities []byte

type communityFile struct {
	Communities []communityEntry `yaml:"communities"`
}

type communityEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// Report counts what Apply did.
type Report struct {
	Created []string
	Skipped []string
}

// DefaultCommunities returns the embedded starter set.
func DefaultCommunities() ([]*entity.Community, error) {
	return ParseCommunities(defaultCommunities)
}

// LoadCommunities reads a YAML file with the same layout as the embedded one.
func LoadCommunities(path string) ([]*entity.Community, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseCommunities(data)
}

func ParseCommunities(data []byte) ([]*entity.Community, error) {
	var file communityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse communities: %w", err)
	}

	seen := make(map[string]bool, len(file.Communities))
	communities := make([]*entity.Community, 0, len(file.Communities))
	for i, c := range file.Communities {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("community %d: name is required", i)
		}
		id := strings.TrimSpace(c.ID)
		if id == "" {
			id = slug(name)
		}
		if seen[id] {
			return nil, fmt.Errorf("community %d: duplicate id %q", i, id)
		}
		seen[id] = true

		communities = append(communities, &entity.Community{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(c.Description),
			Image:       strings.TrimSpace(c.Image),
		})
	}
	return communities, nil
}

func slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Apply creates every community that does not exist yet. Existing ones are
// left untouched, members and availability included.
func Apply(ctx context.Context, repo repository.CommunityRepository, communities []*entity.Community) (*Report, error) {
	report := &Report{}
	for _, c := range communities {
		err := repo.Create(ctx, c)
		switch {
		case err == nil:
			logger.Info("Added community: %s (%s)", c.Name, c.ID)
			report.Created = append(report.Created, c.ID)
		case errors.Is(err, errors.CodeConflict):
			logger.Info("Community %s already exists, skipping", c.ID)
			report.Skipped = append(report.Skipped, c.ID)
		default:
			return report, fmt.Errorf("create community %s: %w", c.ID, err)
		}
	}
	return report, nil
}
