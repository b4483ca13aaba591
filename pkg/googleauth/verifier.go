package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultCertsURL publishes Google's ID-token signing keys.
const DefaultCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

// ErrInvalidToken indicates the ID token failed signature or claim checks.
var ErrInvalidToken = errors.New("invalid id token")

var validIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// Claims are the profile fields carried by a Google ID token.
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// Config configures the verifier. UnknownKeyRefresh bounds how often a token
// naming an unseen key may trigger a refetch of the key set.
type Config struct {
	ClientID          string
	CertsURL          string
	RefreshInterval   time.Duration
	UnknownKeyRefresh time.Duration
	HTTPClient        *http.Client
	Logger            zerolog.Logger
}

// Verifier checks Google ID tokens against the published key set. The key set
// is fetched once at construction and refreshed in the background.
type Verifier struct {
	clientID string
	keys     keyfunc.Keyfunc
	cancel   context.CancelFunc
	logger   zerolog.Logger
	now      func() time.Time
}

// NewVerifier constructs a verifier for tokens issued to clientID. A key set
// that cannot be fetched yet is not an error; verification fails until it can.
// Close stops the background refresh.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.CertsURL == "" {
		cfg.CertsURL = DefaultCertsURL
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Hour
	}
	if cfg.UnknownKeyRefresh <= 0 {
		cfg.UnknownKeyRefresh = 5 * time.Minute
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	logger := cfg.Logger.With().Str("component", "google_verifier").Logger()
	ctx, cancel := context.WithCancel(ctx)

	remote, err := jwkset.NewStorageFromHTTP(cfg.CertsURL, jwkset.HTTPClientStorageOptions{
		Client:                    cfg.HTTPClient,
		Ctx:                       ctx,
		HTTPExpectedStatus:        http.StatusOK,
		HTTPMethod:                http.MethodGet,
		HTTPTimeout:               10 * time.Second,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           cfg.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Warn().Err(err).Str("url", cfg.CertsURL).Msg("failed to refresh signing keys")
		},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("signing key storage: %w", err)
	}

	storage, err := jwkset.NewHTTPClient(jwkset.HTTPClientOptions{
		HTTPURLs:          map[string]jwkset.Storage{cfg.CertsURL: remote},
		RateLimitWaitMax:  time.Second,
		RefreshUnknownKID: rate.NewLimiter(rate.Every(cfg.UnknownKeyRefresh), 1),
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("signing key client: %w", err)
	}

	keys, err := keyfunc.New(keyfunc.Options{
		Ctx:          ctx,
		Storage:      storage,
		UseWhitelist: []jwkset.USE{jwkset.UseSig},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("signing key func: %w", err)
	}

	return &Verifier{
		clientID: cfg.ClientID,
		keys:     keys,
		cancel:   cancel,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Verify validates the token's signature, audience, issuer and expiry and
// returns its claims.
func (v *Verifier) Verify(_ context.Context, idToken string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	if _, err := parser.ParseWithClaims(idToken, claims, v.keys.Keyfunc); err != nil {
		v.logger.Debug().Err(err).Msg("id token rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if _, ok := validIssuers[claims.Issuer]; !ok {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	return claims, nil
}

// Close stops the background key refresh.
func (v *Verifier) Close() {
	v.cancel()
}
