package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rugfork/internal/apperr"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Wallet string
}

// AdminChecker reports whether a wallet has admin rights.
type AdminChecker interface {
	IsAdmin(wallet string) bool
}

type noAdmins struct{}

func (noAdmins) IsAdmin(string) bool { return false }

// canManage allows the owner of a resource or an admin.
func canManage(admins AdminChecker, actor Actor, ownerID uint) bool {
	return actor.UserID == ownerID || (actor.Wallet != "" && admins.IsAdmin(actor.Wallet))
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidInputf("invalid %s id", what)
	}
	return id, nil
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
