package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/aita-go-api/internal/models"
	"github.com/noah-isme/aita-go-api/internal/store"
)

var (
	// ErrMissingCredential indicates sign-in was attempted without a credential.
	ErrMissingCredential = errors.New("missing credential")
	// ErrVerificationFailed indicates the backend did not accept the credential.
	ErrVerificationFailed = errors.New("google sign-in failed")
	// ErrNotSignedIn indicates no teacher identity is stored.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrEmptyName indicates a profile update with a blank name.
	ErrEmptyName = errors.New("name cannot be empty")
)

// Verifier resolves an identity credential into the canonical teacher profile.
type Verifier interface {
	VerifyCredential(ctx context.Context, credential string) (models.Teacher, error)
}

// Bridge establishes and tears down the local teacher session.
type Bridge struct {
	local    *store.Local
	verifier Verifier
	logger   zerolog.Logger
}

// NewBridge constructs the auth bridge. verifier may be nil when only the
// offline sign-in path is available.
func NewBridge(local *store.Local, verifier Verifier, logger zerolog.Logger) *Bridge {
	return &Bridge{
		local:    local,
		verifier: verifier,
		logger:   logger.With().Str("component", "auth_bridge").Logger(),
	}
}

// SignIn verifies credential with the backend and stores the returned teacher.
// Nothing is stored when verification fails.
func (b *Bridge) SignIn(ctx context.Context, credential string) (models.Teacher, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return models.Teacher{}, ErrMissingCredential
	}
	if b.verifier == nil {
		return models.Teacher{}, fmt.Errorf("%w: no verifier configured", ErrVerificationFailed)
	}

	teacher, err := b.verifier.VerifyCredential(ctx, credential)
	if err != nil {
		b.logger.Error().Err(err).Msg("credential verification failed")
		return models.Teacher{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	raw, err := json.Marshal(teacher)
	if err != nil {
		return models.Teacher{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if err := store.Validate(store.SchemaTeacher, raw); err != nil {
		b.logger.Error().Err(err).Msg("verified teacher payload rejected")
		return models.Teacher{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	b.local.SaveTeacher(ctx, teacher)
	b.logger.Info().Str("sub", teacher.Sub).Msg("teacher signed in")
	return teacher, nil
}

// SignInMock stores the demo teacher without any network call.
func (b *Bridge) SignInMock(ctx context.Context) models.Teacher {
	teacher := models.DemoTeacher()
	b.local.SaveTeacher(ctx, teacher)
	b.logger.Info().Msg("demo teacher signed in")
	return teacher
}

// Current reports the stored teacher, used to skip sign-in when a session exists.
func (b *Bridge) Current(ctx context.Context) (models.Teacher, bool) {
	return b.local.Teacher(ctx)
}

// RequireTeacher gates protected actions.
func (b *Bridge) RequireTeacher(ctx context.Context) (models.Teacher, error) {
	teacher, ok := b.local.Teacher(ctx)
	if !ok {
		return models.Teacher{}, ErrNotSignedIn
	}
	return teacher, nil
}

// Logout forgets the teacher identity. Reports and settings are kept.
func (b *Bridge) Logout(ctx context.Context) {
	b.local.ClearIdentity(ctx)
	b.logger.Info().Msg("teacher signed out")
}

// UpdateName changes the display name, keeping the rest of the profile.
func (b *Bridge) UpdateName(ctx context.Context, name string) (models.Teacher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Teacher{}, ErrEmptyName
	}

	teacher, err := b.RequireTeacher(ctx)
	if err != nil {
		return models.Teacher{}, err
	}

	teacher.Name = name
	b.local.SaveTeacher(ctx, teacher)
	return teacher, nil
}
