// Package service implements the business logic behind the HTTP API: the
// social graph resolver, feed composition, profile aggregation and the
// post, comment, follow and account workflows.
package service

import (
	"context"

	"outstagram/internal/notifications"
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// TokenIssuer signs access tokens for an account.
type TokenIssuer interface {
	Issue(userID uint, username string) (string, error)
}

// Notifier delivers best-effort events to an account. Implementations must
// not block the caller on delivery failures.
type Notifier interface {
	Notify(ctx context.Context, userID uint, event notifications.Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, uint, notifications.Event) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
