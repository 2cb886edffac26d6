package service

import (
	"context"
	"strings"
	"time"

	"howdy-portal-be/internal/config"
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/mapper"
	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/pkg/events"
	"howdy-portal-be/pkg/portal"

	"github.com/google/uuid"
)

// guestName is shown when the login form is submitted empty.
const guestName = "Aggie"

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error)
}

type authService struct {
	sessions  contract.SessionRepository
	publisher IPublisherService
	mapper    *mapper.PortalMapper
	cfg       config.AuthConfig
}

func NewAuthService(sessions contract.SessionRepository, publisher IPublisherService, cfg config.AuthConfig) IAuthService {
	return &authService{
		sessions:  sessions,
		publisher: publisher,
		mapper:    mapper.NewPortalMapper(),
		cfg:       cfg,
	}
}

// Login always succeeds: there is no credential store behind the portal.
// Each login starts a fresh session.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = guestName
	}

	state := portal.Login(portal.New(uuid.NewString()), username)
	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, err
	}

	token, err := serverutils.GenerateToken(s.cfg.JwtSecret, state.SessionID, username, s.cfg.TokenExpiry)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.TypeUserLogin, map[string]interface{}{
		"session_id": state.SessionID,
		"username":   username,
	}))

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.TokenExpiry / time.Second),
		State:       s.mapper.ToStateResponse(state),
	}, nil
}

// Logout resets the session in place. The session id survives with a new
// epoch so replies still in flight can tell they are stale.
func (s *authService) Logout(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error) {
	var username string
	state, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		username = cur.Username
		return portal.Logout(cur), nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.TypeUserLogout, map[string]interface{}{
		"session_id": sessionID,
		"username":   username,
		"epoch":      state.Epoch,
	}))

	return s.mapper.ToStateResponse(state), nil
}
