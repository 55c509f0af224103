package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// SessionClaims is the signed snapshot a session token carries. The subject
// is the account id; username and admin flag are included so embedding
// surfaces can render without a registry read.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}

// TokenService mints and validates HS256 session tokens.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string) *TokenService {
	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		logger:     defLogger{},
		now:        time.Now,
	}
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// WithClock injects a custom clock (useful for tests).
func (ts *TokenService) WithClock(clock func() time.Time) *TokenService {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// Mint signs a token for the given account snapshot.
func (ts *TokenService) Mint(account *Account) (string, error) {
	if account == nil {
		return "", goerrors.New("account must not be nil", goerrors.CategoryBadInput)
	}

	now := ts.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		Username: account.Username,
		Admin:    account.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning its claims.
func (ts *TokenService) Validate(raw string) (*SessionClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	parserOptions = append(parserOptions, jwt.WithTimeFunc(ts.now))

	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("session token has unexpected signing method", "alg", t.Header["alg"])
			return nil, ErrSessionTokenMalformed
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionTokenExpired
		}
		return nil, ErrSessionTokenMalformed
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Error("session token claims could not be decoded")
		return nil, ErrSessionTokenMalformed
	}

	return claims, nil
}
