package repository

import (
	"context"
	"errors"
)

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("conflicting row already exists")

// ErrMissingReference is returned when a write references a row that does not exist.
var ErrMissingReference = errors.New("referenced row does not exist")

// Repositories groups the repositories that share one connection or transaction.
type Repositories struct {
	Records       DataRecordRepository
	Distributions DistributionRepository
	Uploads       UploadFileRepository
	CallDetails   CallDetailRepository
}

// Transactor runs fn inside a single database transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
