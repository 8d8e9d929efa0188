// Package repository defines the data-access boundary of the planning
// core. The core only ever reads snapshots; edits happen between
// computation passes.
package repository

import (
	"context"
	"errors"

	"github.com/citadelmro/capplan/core/model"
)

// ErrNotFound is returned when a project number has no match.
var ErrNotFound = errors.New("repository: project not found")

// Repository provides CRUD plus bulk listing of projects and
// departments. Implementations must return copies safe for the caller
// to hold across recomputations.
type Repository interface {
	// ListProjects returns the dataset for one category.
	ListProjects(ctx context.Context, category model.Category) ([]model.Project, error)
	// ListDepartments returns every department.
	ListDepartments(ctx context.Context) ([]model.Department, error)
	// UpsertProject inserts or replaces the project keyed by its number
	// within its category. A missing ID is assigned.
	UpsertProject(ctx context.Context, p model.Project) error
	// DeleteProject removes the project with the given number from the
	// category. Deleting an absent number returns ErrNotFound.
	DeleteProject(ctx context.Context, category model.Category, number string) error
	// ReplaceDataset swaps an entire category.
	ReplaceDataset(ctx context.Context, category model.Category, projects []model.Project) error
	// SaveDepartments replaces the department set.
	SaveDepartments(ctx context.Context, depts []model.Department) error
	// Close releases backend resources.
	Close() error
}

// SeedIfEmpty populates the repository only when every dataset is empty.
func SeedIfEmpty(ctx context.Context, repo Repository, confirmed, potential, actual []model.Project, depts []model.Department) error {
	for _, c := range []model.Category{model.CategoryConfirmed, model.CategoryPotential, model.CategoryActual} {
		existing, err := repo.ListProjects(ctx, c)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
	}
	existing, err := repo.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if err := repo.SaveDepartments(ctx, depts); err != nil {
		return err
	}
	if err := repo.ReplaceDataset(ctx, model.CategoryConfirmed, confirmed); err != nil {
		return err
	}
	if err := repo.ReplaceDataset(ctx, model.CategoryPotential, potential); err != nil {
		return err
	}
	return repo.ReplaceDataset(ctx, model.CategoryActual, actual)
}
