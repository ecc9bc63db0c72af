// Package session keeps the per-session comment list that background
// decoration writes into.
package session

import (
	"context"
	"sync"
	"time"

	"fakepost/internal/domain"
)

const DefaultTTL = 30 * time.Minute

// Token identifies one generation of a board's comment list. Pictures
// decorated for an older token are discarded.
type Token uint64

// Board holds the current comment list of one session.
type Board struct {
	mu       sync.Mutex
	token    Token
	comments []domain.Comment
	touched  time.Time
	now      func() time.Time
}

// Reset replaces the comment list and returns the new current token.
func (b *Board) Reset(comments []domain.Comment) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token++
	b.comments = domain.CloneComments(comments)
	b.touched = b.now()
	return b.token
}

// Apply sets the picture of the comment or reply with id. It reports false
// when token is stale or id is unknown.
func (b *Board) Apply(token Token, id, url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token != b.token {
		return false
	}
	for i := range b.comments {
		if b.comments[i].ID == id {
			b.comments[i].ProfilePicURL = url
			b.touched = b.now()
			return true
		}
		for j := range b.comments[i].Replies {
			if b.comments[i].Replies[j].ID == id {
				b.comments[i].Replies[j].ProfilePicURL = url
				b.touched = b.now()
				return true
			}
		}
	}
	return false
}

// Snapshot returns a deep copy of the current list and its token.
func (b *Board) Snapshot() ([]domain.Comment, Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touched = b.now()
	return domain.CloneComments(b.comments), b.token
}

func (b *Board) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touched
}

// Store maps session ids to boards.
type Store struct {
	mu     sync.Mutex
	boards map[string]*Board
	ttl    time.Duration
	now    func() time.Time
}

// NewStore constructs a Store whose idle boards expire after ttl.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{boards: make(map[string]*Board), ttl: ttl, now: time.Now}
}

// Board returns the board for id, creating it when absent.
func (s *Store) Board(id string) *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	if !ok {
		b = &Board{now: s.now, touched: s.now()}
		s.boards[id] = b
	}
	return b
}

// Lookup returns the board for id without creating one.
func (s *Store) Lookup(id string) (*Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	return b, ok
}

// Sweep removes boards idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, b := range s.boards {
		if b.idleSince().Before(cutoff) {
			delete(s.boards, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
