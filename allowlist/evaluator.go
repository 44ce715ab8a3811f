package allowlist

import "github.com/Linux-Alex/GraphLink/models"

// IsSenderAllowed reports whether email names a configured account.
func (s *Store) IsSenderAllowed(email string) bool {
	return s.find(email) != nil
}

// LookupAccount returns the account configured for email.
func (s *Store) LookupAccount(email string) (models.AllowedAccount, bool) {
	e := s.find(email)
	if e == nil {
		return models.AllowedAccount{}, false
	}
	return copyAccount(e.account), true
}

// IsReceiverAllowed reports whether sender may send to receiver. Unknown
// senders may send to nobody.
func (s *Store) IsReceiverAllowed(sender, receiver string) bool {
	_, ok := s.MatchReceiver(sender, receiver)
	return ok
}

// MatchReceiver returns the first of the sender's patterns that matches
// receiver.
func (s *Store) MatchReceiver(sender, receiver string) (string, bool) {
	e := s.find(sender)
	if e == nil {
		return "", false
	}
	for _, p := range e.patterns {
		if p.Match(receiver) {
			return p.String(), true
		}
	}
	return "", false
}
