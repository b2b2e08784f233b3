package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/prochallenge/internal/adapters/localstate"
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/logger"
)

// Login opens a session for user.
func (s *Service) Login(ctx context.Context, user string) (types.Session, error) {
	prev, _ := s.state.Get(localstate.KeyUser)
	sess, err := s.state.Login(user, s.now())
	if err != nil {
		return types.Session{}, fmt.Errorf("login: %w", err)
	}
	if prev != sess.User {
		s.mu.Lock()
		s.lastBMI = nil
		s.mu.Unlock()
	}
	s.logger.Info(ctx, "user logged in", logger.String("user", sess.User))
	return s.sessionView(sess), nil
}

// Logout clears the session and everything cached for it.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.state.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.mu.Lock()
	s.lastBMI = nil
	s.mu.Unlock()
	s.logger.Info(ctx, "user logged out")
	return nil
}

// CurrentSession returns the live session. An expired session is cleared
// and reported as ErrUnauthenticated.
func (s *Service) CurrentSession(_ context.Context) (types.Session, error) {
	sess, err := s.session()
	if err != nil {
		return types.Session{}, err
	}
	return s.sessionView(sess), nil
}

func (s *Service) session() (localstate.Session, error) {
	sess, err := s.state.Session(s.now(), s.sessionTTL)
	if errors.Is(err, localstate.ErrNotAuthenticated) {
		s.mu.Lock()
		s.lastBMI = nil
		s.mu.Unlock()
		return localstate.Session{}, ErrUnauthenticated
	}
	if err != nil {
		return localstate.Session{}, fmt.Errorf("read session: %w", err)
	}
	return sess, nil
}

func (s *Service) currentUser() (string, error) {
	sess, err := s.session()
	if err != nil {
		return "", err
	}
	return sess.User, nil
}

func (s *Service) sessionView(sess localstate.Session) types.Session {
	return types.Session{
		User:          sess.User,
		Authenticated: true,
		LoginTime:     sess.LoginTime,
		ExpiresAt:     sess.LoginTime.Add(s.sessionTTL),
	}
}
