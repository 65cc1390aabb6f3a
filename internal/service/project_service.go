package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/dsnsgithub/activity-feed/internal/api"
	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// DefaultProjectsLimit is the number of recent projects shown.
const DefaultProjectsLimit = 8

// ProjectService lists the user's most recently pushed repositories.
type ProjectService struct {
	client   api.RepositoryClient
	username string
	limit    int
}

func NewProjectService(client api.RepositoryClient, username string, limit int) *ProjectService {
	if limit <= 0 {
		limit = DefaultProjectsLimit
	}
	return &ProjectService{client: client, username: username, limit: limit}
}

// GetRecentProjects returns non-fork repositories, most recently pushed first.
func (s *ProjectService) GetRecentProjects(ctx context.Context) ([]domain.Project, error) {
	repos, err := s.client.ListUserRepositories(ctx, s.username)
	if err != nil {
		return nil, fmt.Errorf("list repositories for %s: %w", s.username, err)
	}

	projects := make([]domain.Project, 0, len(repos))
	for _, repo := range repos {
		if repo.IsFork {
			continue
		}
		projects = append(projects, repo)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].PushedAt.After(projects[j].PushedAt)
	})

	if len(projects) > s.limit {
		projects = projects[:s.limit]
	}
	return projects, nil
}
