// Package allowlist holds the static set of sender accounts the gateway may
// act for, and decides which sender and receiver combinations are permitted.
package allowlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Linux-Alex/GraphLink/models"
)

var (
	ErrNoAccounts   = errors.New("allowed accounts must not be empty")
	ErrEmptyEmail   = errors.New("allowed account email must not be empty")
	ErrDuplicateKey = errors.New("duplicate allowed account")
)

type entry struct {
	account  models.AllowedAccount
	key      string // case-mapped email
	patterns []*Pattern
}

// Store is a read-only view of the configured accounts. It is built once and
// never mutated, so it is safe for concurrent use without locking.
type Store struct {
	entries []entry
}

// NewStore validates accounts and compiles their receiver patterns. Accounts
// sharing an email, compared case-insensitively, are rejected.
func NewStore(accounts []models.AllowedAccount) (*Store, error) {
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	seen := make(map[string]int, len(accounts))
	entries := make([]entry, 0, len(accounts))

	for i, acc := range accounts {
		if strings.TrimSpace(acc.Email) == "" {
			return nil, fmt.Errorf("account %d: %w", i, ErrEmptyEmail)
		}

		key := fold(acc.Email)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w %q (entries %d and %d)", ErrDuplicateKey, acc.Email, prev, i)
		}
		seen[key] = i

		receivers := append([]string(nil), acc.Receivers()...)
		patterns := make([]*Pattern, 0, len(receivers))
		for _, r := range receivers {
			patterns = append(patterns, CompilePattern(r))
		}

		entries = append(entries, entry{
			account: models.AllowedAccount{
				Email:            acc.Email,
				DisplayName:      acc.DisplayName,
				AllowedReceivers: receivers,
			},
			key:      key,
			patterns: patterns,
		})
	}

	return &Store{entries: entries}, nil
}

// Accounts returns a copy of the configured accounts in configuration order.
func (s *Store) Accounts() []models.AllowedAccount {
	out := make([]models.AllowedAccount, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, copyAccount(e.account))
	}
	return out
}

func (s *Store) find(email string) *entry {
	key := fold(email)
	for i := range s.entries {
		if s.entries[i].key == key {
			return &s.entries[i]
		}
	}
	return nil
}

func copyAccount(a models.AllowedAccount) models.AllowedAccount {
	a.AllowedReceivers = append([]string(nil), a.AllowedReceivers...)
	return a
}
