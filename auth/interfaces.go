package auth

import (
	"context"
	"time"

	"github.com/scerios/quiz/domain"
	"github.com/scerios/quiz/sessions"
)

type PlayerRepo interface {
	CreatePlayer(ctx context.Context, name, passwordHash string) (int64, error)
	GetPlayerByName(ctx context.Context, name string) (domain.PlayerCredentials, error)
	SetPlayerStatus(ctx context.Context, id int64, loggedIn bool) error
}

type AdminRepo interface {
	GetAdminByName(ctx context.Context, name string) (domain.AdminCredentials, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type TokenManager interface {
	Generate(subject string, now time.Time) (string, error)
	Verify(token string) (string, error)
}

type SessionStore interface {
	Create(ctx context.Context, sess sessions.Session) (string, error)
	Get(ctx context.Context, sid string) (sessions.Session, error)
	Delete(ctx context.Context, sid string) error
}
