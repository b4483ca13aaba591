package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/pkg/googleauth"
)

// AuthService exchanges identity provider credentials for teacher profiles.
type AuthService interface {
	Verify(ctx context.Context, credential string) (models.Teacher, error)
}

// TokenVerifier validates an ID token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*googleauth.Claims, error)
}

// ErrMissingCredential indicates the request carried no credential.
var ErrMissingCredential = errors.New("missing credential")

// ErrAuthNotConfigured indicates the server has no client id to verify against.
var ErrAuthNotConfigured = errors.New("server missing GOOGLE_CLIENT_ID")

// ErrInvalidToken indicates the credential could not be verified.
var ErrInvalidToken = errors.New("invalid token")

type authService struct {
	verifier TokenVerifier
	tracer   trace.Tracer
	logger   zerolog.Logger
}

// NewAuthService constructs the auth service. A nil verifier means no client
// id is configured and every verification fails with ErrAuthNotConfigured.
func NewAuthService(verifier TokenVerifier, logger zerolog.Logger) AuthService {
	return &authService{
		verifier: verifier,
		tracer:   otel.Tracer("github.com/noah-isme/aita-go-api/internal/service/auth"),
		logger:   logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Verify(ctx context.Context, credential string) (models.Teacher, error) {
	ctx, span := s.tracer.Start(ctx, "auth.verify")
	defer span.End()

	if strings.TrimSpace(credential) == "" {
		span.SetStatus(codes.Error, "missing credential")
		return models.Teacher{}, ErrMissingCredential
	}
	if s.verifier == nil {
		span.SetStatus(codes.Error, "not configured")
		return models.Teacher{}, ErrAuthNotConfigured
	}

	claims, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "verification failed")
		s.logger.Warn().Err(err).Msg("id token verification failed")
		return models.Teacher{}, ErrInvalidToken
	}

	return models.Teacher{
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
		Sub:     claims.Subject,
	}, nil
}
