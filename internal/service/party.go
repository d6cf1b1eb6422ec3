package service

import (
	"context"
	"errors"

	"github.com/Leganyst/consultation-platform/internal/model"
	"github.com/Leganyst/consultation-platform/internal/repository"
)

var ErrPartyUnavailable = errors.New("party account is not available")

// Источник данных об аккаунтах.
// В реале это обёртка над БД, в тестах мок.
type PartyStore interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// resolveAvailableParty:
//   - проверяет корректность идентификатора;
//   - вытаскивает аккаунт из хранилища;
//   - проверяет, что аккаунт не отключён.
//
// Отсутствующий и отключённый аккаунт для вызывающего неразличимы (ErrPartyUnavailable).
func resolveAvailableParty(ctx context.Context, store PartyStore, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, ErrPartyUnavailable
	}

	u, err := store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPartyUnavailable
		}
		return nil, err
	}
	if u == nil || u.IsDisabled() {
		return nil, ErrPartyUnavailable
	}

	return u, nil
}
