package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a namespace has never been written.
var ErrNotFound = errors.New("document not found")

// DocumentStore keeps one JSON document per namespace.
type DocumentStore interface {
	// Put replaces the document stored under namespace
	Put(ctx context.Context, namespace string, doc any) error

	// Get decodes the namespace document into dst. Returns ErrNotFound when absent.
	Get(ctx context.Context, namespace string, dst any) error

	// Delete removes a namespace. Deleting a missing namespace is not an error.
	Delete(ctx context.Context, namespace string) error

	// Exists checks if a namespace has been written
	Exists(ctx context.Context, namespace string) (bool, error)
}
