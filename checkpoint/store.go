// Package checkpoint persists serialized estimator parameters under names such as
// "pretrain-3" or "finetune-4".
package checkpoint

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by Load when no checkpoint has the requested name.
var ErrNotFound = errors.New("checkpoint not found")

// Store saves and loads opaque checkpoint payloads by name.
type Store interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, error)
	Close() error
}

const (
	KindFile   = "file"
	KindBadger = "badger"
)

// Name is the key of the checkpoint for one stage and size.
func Name(stage string, size int) string {
	return fmt.Sprintf("%s-%d", stage, size)
}

// Open returns the store of the given kind rooted at dir.
func Open(kind, dir string, logger *slog.Logger) (Store, error) {
	switch kind {
	case KindFile, "":
		s, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindBadger:
		cfg := DefaultBadgerConfig()
		cfg.Path = dir
		cfg.Logger = logger
		s, err := OpenBadger(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown checkpoint store %q", kind)
}
