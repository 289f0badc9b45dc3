package messaging

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"threadline/models"
	"threadline/pkg/cache"
)

// Thread materializes the reply tree under rootID as a flat slice, parent
// before children, siblings in ascending ID order. Results are cached per
// root (the rendered thread is the same for every viewer) for the store's
// TTL window; a hit returns the cached slice without touching the store.
// Duplicate recomputation on concurrent misses is fine: results are
// idempotent, so the miss path takes no lock.
func (s *Store) Thread(rootID uint) ([]models.Message, error) {
	key := threadKey(rootID)
	if v, ok := s.threads.Get(key); ok {
		return v.([]models.Message), nil
	}

	var root models.Message
	if err := s.db.First(&root, rootID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("thread root %d: %w", rootID, ErrNotFound)
		}
		return nil, fmt.Errorf("load thread root %d: %w", rootID, err)
	}

	out := []models.Message{root}
	visited := map[uint]bool{root.ID: true}
	if err := s.collectReplies(&out, visited, root.ID); err != nil {
		return nil, err
	}

	s.threads.Set(key, out, s.threadTTL)
	return out, nil
}

// InvalidateThread drops the cached rendering for one root.
func (s *Store) InvalidateThread(rootID uint) {
	s.threads.Delete(threadKey(rootID))
}

func threadKey(rootID uint) string {
	return cache.KeyFromStrings("thread", strconv.FormatUint(uint64(rootID), 10))
}

// collectReplies walks the reply tree depth-first. The visited set guards
// against corrupt parent links: a message reappearing in its own subtree
// aborts the walk with ErrCycle rather than recursing forever.
func (s *Store) collectReplies(acc *[]models.Message, visited map[uint]bool, parentID uint) error {
	var replies []models.Message
	if err := s.db.Where("parent_id = ?", parentID).Order("id ASC").Find(&replies).Error; err != nil {
		return fmt.Errorf("load replies of message %d: %w", parentID, err)
	}
	for _, r := range replies {
		if visited[r.ID] {
			return fmt.Errorf("message %d revisited under %d: %w", r.ID, parentID, ErrCycle)
		}
		visited[r.ID] = true
		*acc = append(*acc, r)
		if err := s.collectReplies(acc, visited, r.ID); err != nil {
			return err
		}
	}
	return nil
}
