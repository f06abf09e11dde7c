package auth

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/scerios/quiz/domain"
)

var usernameFormat = regexp.MustCompile("^[a-zA-Z0-9_]{3,20}$")

type Service struct {
	players        PlayerRepo
	admins         AdminRepo
	passwordHasher PasswordHasher
	tokenManager   TokenManager
}

func NewService(players PlayerRepo, admins AdminRepo, passwordHasher PasswordHasher, tokenManager TokenManager) *Service {
	return &Service{
		players:        players,
		admins:         admins,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
	}
}

// Signup registers a new player account and returns its id.
func (s *Service) Signup(ctx context.Context, name, password string) (int64, error) {
	if !usernameFormat.MatchString(name) {
		return 0, ErrInvalidUsernameFormat
	}

	if utf8.RuneCountInString(password) < 8 {
		return 0, ErrWeakPassword
	}

	passwordHash, err := s.passwordHasher.Hash(password)
	if err != nil {
		return 0, err
	}

	return s.players.CreatePlayer(ctx, name, passwordHash)
}

// Login authenticates a player and flags them logged in. A player that is
// already flagged logged in is refused, so one account cannot hold two seats
// on the game board.
func (s *Service) Login(ctx context.Context, name, password string) (domain.PlayerCredentials, error) {
	creds, err := s.players.GetPlayerByName(ctx, name)
	if err != nil {
		return domain.PlayerCredentials{}, err
	}

	match, err := s.passwordHasher.Compare(creds.PasswordHash, password)
	if err != nil {
		return domain.PlayerCredentials{}, err
	}
	if !match {
		return domain.PlayerCredentials{}, ErrIncorrectPassword
	}

	if creds.IsLoggedIn {
		return domain.PlayerCredentials{}, ErrAlreadyLoggedIn
	}

	if err := s.players.SetPlayerStatus(ctx, creds.ID, true); err != nil {
		return domain.PlayerCredentials{}, err
	}

	return creds, nil
}

func (s *Service) Logout(ctx context.Context, playerID int64) error {
	return s.players.SetPlayerStatus(ctx, playerID, false)
}

// AdminLogin authenticates against the admin table and returns a signed
// token for the control-panel cookie.
func (s *Service) AdminLogin(ctx context.Context, name, password string) (string, error) {
	creds, err := s.admins.GetAdminByName(ctx, name)
	if err != nil {
		return "", err
	}

	match, err := s.passwordHasher.Compare(creds.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrIncorrectPassword
	}

	return s.tokenManager.Generate(creds.Name, time.Now())
}

// VerifyAdminToken returns the admin name if the token is valid, else, it
// returns an error.
func (s *Service) VerifyAdminToken(token string) (string, error) {
	return s.tokenManager.Verify(token)
}
