// Package postgres implements the store interfaces over PostgreSQL through
// gorm, with pgx as the underlying driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/store"
)

type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// Open connects via the pgx stdlib driver, hands the connection to gorm and
// migrates the schema. verbose enables gorm query logging.
func Open(dsn string, verbose bool) (*Store, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	lvl := logger.Error
	if verbose {
		lvl = logger.Info
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(lvl),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s, err := newStore(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	s.sqlDB = sqlDB
	return s, nil
}

func newStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&userRow{}, &categoryRow{}, &postRow{}, &productRow{},
		&orderRow{}, &orderItemRow{}, &tagRow{}, &reviewRow{},
	); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.sqlDB != nil {
		return s.sqlDB.Close()
	}
	return nil
}

// Stores bundles the relational repositories, including the transactional
// catalog path.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Users:      &userRepo{db: s.db},
		Posts:      &postRepo{db: s.db},
		Products:   &productRepo{db: s.db},
		Orders:     &orderRepo{db: s.db},
		Categories: &categoryRepo{db: s.db},
		Catalog:    &catalogRepo{db: s.db},
		Tags:       &tagRepo{db: s.db},
		Reviews:    &reviewRepo{db: s.db},
	}
}

// checkID enforces the relational key format (uuid) before touching the
// database, so a malformed id never turns into a full-table miss.
func checkID(id, entity string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.MalformedIDf("Invalid %s ID format", entity)
	}
	return nil
}

func isDup(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isFKViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
