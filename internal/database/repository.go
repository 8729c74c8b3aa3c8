package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityMapper defines the interface for mapping between domain and database model types.
type EntityMapper[D any, E any] interface {
	ToDomain(entity E) D
	ToModel(domain D) E
}

// Repository provides generic persistence operations for database entities
// using Query-based filters.
type Repository[D any, E any] struct {
	db     Database
	mapper EntityMapper[D, E]
	label  string
}

// NewRepository creates a new Repository.
func NewRepository[D any, E any](db Database, mapper EntityMapper[D, E], label string) Repository[D, E] {
	return Repository[D, E]{
		db:     db,
		mapper: mapper,
		label:  label,
	}
}

// In returns a copy of the repository bound to db, typically a transaction.
func (r Repository[D, E]) In(db Database) Repository[D, E] {
	r.db = db
	return r
}

func (r Repository[D, E]) modelDB(ctx context.Context) *gorm.DB {
	return r.db.Session(ctx).Model(new(E))
}

// Find retrieves entities matching the query.
func (r Repository[D, E]) Find(ctx context.Context, q Query) ([]D, error) {
	var entities []E
	if err := q.Apply(r.modelDB(ctx)).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", r.label, err)
	}

	domains := make([]D, len(entities))
	for i, entity := range entities {
		domains[i] = r.mapper.ToDomain(entity)
	}
	return domains, nil
}

// Count returns the number of entities matching the query's filters.
func (r Repository[D, E]) Count(ctx context.Context, q Query) (int64, error) {
	var count int64
	if err := q.applyFilters(r.modelDB(ctx)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", r.label, err)
	}
	return count, nil
}

// Upsert inserts the entities, updating every column of rows whose key
// columns already exist.
func (r Repository[D, E]) Upsert(ctx context.Context, domains []D, keys ...string) error {
	if len(domains) == 0 {
		return nil
	}
	entities := make([]E, len(domains))
	for i, d := range domains {
		entities[i] = r.mapper.ToModel(d)
	}

	columns := make([]clause.Column, len(keys))
	for i, k := range keys {
		columns[i] = clause.Column{Name: k}
	}

	err := r.db.Session(ctx).
		Clauses(clause.OnConflict{Columns: columns, UpdateAll: true}).
		Create(&entities).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", r.label, err)
	}
	return nil
}

// InsertIgnore inserts the entities, skipping rows that already exist.
func (r Repository[D, E]) InsertIgnore(ctx context.Context, domains []D) error {
	if len(domains) == 0 {
		return nil
	}
	entities := make([]E, len(domains))
	for i, d := range domains {
		entities[i] = r.mapper.ToModel(d)
	}

	err := r.db.Session(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities).Error
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.label, err)
	}
	return nil
}
