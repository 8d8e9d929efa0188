package repository

import "github.com/citadelmro/capplan/core/factory"

var backendRegistry = factory.NewRegistry[Repository]()

// RegisterBackend adds a repository backend factory identified by name.
func RegisterBackend(name string, f factory.Factory[Repository]) error {
	return backendRegistry.Register(name, f)
}

// NewBackend creates a Repository from the provided configuration.
func NewBackend(cfg factory.ModuleConfig) (Repository, error) {
	return backendRegistry.Create(cfg)
}
