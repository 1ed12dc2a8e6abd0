package moderation

import "tokenlounge/domain"

// Authority decides whether a moderation request is permitted. It is a pure
// predicate over wallet identities: the hub consults it and silently ignores
// requests it denies, per the channel error policy.
type Authority struct {
	admin domain.Wallet
}

func NewAuthority(admin domain.Wallet) Authority {
	return Authority{admin: admin}
}

// CanDelete allows the message owner and the designated administrator.
func (a Authority) CanDelete(actor domain.Wallet, message domain.ChatMessage) bool {
	if actor.IsZero() {
		return false
	}
	return actor == message.Wallet || actor == a.admin
}

// CanPin is reserved for the administrator.
func (a Authority) CanPin(actor domain.Wallet) bool {
	if actor.IsZero() {
		return false
	}
	return actor == a.admin
}
