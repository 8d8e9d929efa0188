package store

import (
	"github.com/citadelmro/capplan/core/factory"
	"github.com/citadelmro/capplan/core/repository"
)

// init registers built-in repository backends.
func init() {
	_ = repository.RegisterBackend("memory", func(map[string]any) (repository.Repository, error) {
		return NewMemoryStore(), nil
	})

	_ = repository.RegisterBackend("sqlite", func(conf map[string]any) (repository.Repository, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "capplan.db"
		}
		return NewSQLiteStore(c.Path)
	})
}
