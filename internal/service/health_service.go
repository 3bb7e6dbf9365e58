package service

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// StoreHealth reports store connectivity and the visible tables.
type StoreHealth struct {
	Database string   `json:"database"`
	Status   string   `json:"status"`
	Tables   []string `json:"tables"`
}

// HealthService answers diagnostic questions about the storage backend.
// Informational only, not part of the domain contract.
type HealthService struct {
	db   *sqlx.DB
	name string
}

// NewHealthService constructs the health service.
func NewHealthService(db *sqlx.DB, databaseName string) *HealthService {
	return &HealthService{db: db, name: databaseName}
}

// Store pings the database and enumerates up to ten public tables.
func (s *HealthService) Store(ctx context.Context) StoreHealth {
	health := StoreHealth{Database: s.name, Status: "unavailable", Tables: []string{}}
	if s.db == nil {
		return health
	}
	if err := s.db.PingContext(ctx); err != nil {
		return health
	}
	health.Status = "connected"

	const query = `SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename LIMIT 10`
	var tables []string
	if err := s.db.SelectContext(ctx, &tables, query); err != nil {
		health.Status = "connected, enumeration failed"
		return health
	}
	health.Tables = tables
	return health
}
