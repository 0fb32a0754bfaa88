package memory

import (
	"context"
	"sync"

	"github.com/Dosada05/match-score/repositories"
)

// Snapshotter captures a store's state; calling restore puts it back.
type Snapshotter interface {
	Snapshot() (restore func())
}

// Transactor serializes units of work over the in-memory stores. Stores passed to
// NewTransactor are snapshotted before fn runs and restored when fn fails or panics.
type Transactor struct {
	mu     sync.Mutex
	stores []Snapshotter
}

func NewTransactor(stores ...Snapshotter) *Transactor {
	return &Transactor{stores: stores}
}

func (t *Transactor) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.Snapshot())
	}
	defer func() {
		if p := recover(); p != nil {
			rollback(restores)
			panic(p)
		}
		if err != nil {
			rollback(restores)
		}
	}()

	return fn(nil)
}

func rollback(restores []func()) {
	for i := len(restores) - 1; i >= 0; i-- {
		restores[i]()
	}
}
