// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txKey struct{}

// conn returns the transaction bound to ctx by a Transactor, or db itself.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// inTx reports whether ctx carries a Transactor transaction.
func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// Transactor runs a unit of work in one database transaction. Repositories
// called with the ctx handed to fn join that transaction.
type Transactor interface {
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	ReadWrite(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor returns a Transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (t *gormTransactor) ReadWrite(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, nil, fn)
}

// run nests into an outer transaction when ctx already carries one.
func (t *gormTransactor) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	txFn := func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}
	if opts == nil {
		return t.db.WithContext(ctx).Transaction(txFn)
	}
	return t.db.WithContext(ctx).Transaction(txFn, opts)
}

// isUniqueViolation detects duplicate-key errors from PostgreSQL (SQLSTATE 23505)
// and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}

func isDialect(db *gorm.DB, name string) bool {
	return db.Dialector != nil && db.Dialector.Name() == name
}
