package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles every repository over one connection or transaction.
type Store struct {
	db *gorm.DB

	Users   *UserRepository
	Entries StressEntryRepository
	Models  ModelRegistryRepository
	Jobs    TrainingJobRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Users:   NewUserRepository(db),
		Entries: NewStressEntryRepository(db),
		Models:  NewModelRegistryRepository(db),
		Jobs:    NewTrainingJobRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction. Any
// error returned by fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) DB() *gorm.DB {
	return s.db
}
