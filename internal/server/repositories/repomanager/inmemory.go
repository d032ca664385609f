package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out a single process-local user store and
// ignores the DBTX argument. Used when no database DSN is configured.
type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(_ dbx.DBTX) users.Repository {
	return m.users
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}
