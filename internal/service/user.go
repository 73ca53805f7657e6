package service

import (
	"context"
	"errors"
	"fmt"

	"multizone/internal/dto/resp"
	"multizone/internal/model"
	"multizone/internal/repository"
)

// SampleUsers is the fixed set the seed endpoint and the seed job install.
var SampleUsers = []model.User{
	{Email: "alice@example.com", Name: "Alice Johnson"},
	{Email: "bob@example.com", Name: "Bob Smith"},
	{Email: "charlie@example.com", Name: "Charlie Brown"},
	{Email: "diana@example.com", Name: "Diana Prince"},
	{Email: "eve@example.com", Name: "Eve Anderson"},
}

// UserService wraps the user repository with the small amount of policy the
// handlers share with the seed job.
type UserService struct {
	repo repository.UserInterface
}

func NewUserService(repo repository.UserInterface) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, email, name string) (*model.User, error) {
	user := &model.User{Email: email, Name: name}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.repo.DeleteByID(ctx, id)
}

// Seed installs the sample users best-effort. Each user is find-or-create:
// insert first, and on a duplicate-key loss re-read by email and count the
// row as skipped. A single failure never aborts the rest of the batch.
func (s *UserService) Seed(ctx context.Context) resp.SeedReport {
	report := resp.SeedReport{
		Message:    "Database seeding completed",
		TotalUsers: len(SampleUsers),
		Errors:     []string{},
	}

	for _, sample := range SampleUsers {
		user := sample
		err := s.repo.Create(ctx, &user)
		if err == nil {
			report.Created++
			continue
		}
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the insert race or the row predates this call; either way
			// the existing record wins.
			if _, err := s.repo.GetByEmail(ctx, sample.Email); err == nil {
				report.Skipped++
				continue
			}
		}
		report.Errors = append(report.Errors, fmt.Sprintf("Error creating user %s: %v", sample.Email, err))
	}

	report.ErrorCount = len(report.Errors)
	return report
}
