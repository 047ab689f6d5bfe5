package stub

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/api"
)

const tokenTTL = 24 * time.Hour

type ctxKey int

const principalKey ctxKey = iota

// Auth issues OTPs and signs bearer tokens. OTP delivery is out of scope
// for the stub; issued codes are written to the log instead.
type Auth struct {
	store  *Store
	secret []byte
	log    zerolog.Logger
	devOTP bool
}

// NewAuth creates the auth layer signing tokens with the given secret.
func NewAuth(store *Store, secret string, log zerolog.Logger) *Auth {
	return &Auth{store: store, secret: []byte(secret), log: log}
}

// SetDevOTP makes Verify accept any well-formed six-digit code.
func (a *Auth) SetDevOTP(on bool) {
	a.devOTP = on
}

// IssueOTP generates and records a six-digit code for the mobile number.
func (a *Auth) IssueOTP(mobile string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		n = big.NewInt(0)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	a.store.SaveOTP(mobile, code)
	a.log.Info().Str("mobile", mobile).Str("otp", code).Msg("otp issued")
	return code
}

// Verify checks the code and returns the principal with a signed token.
func (a *Auth) Verify(mobile, code string) (*api.VerifyResult, error) {
	if a.devOTP {
		if len(code) != 6 {
			return nil, fmt.Errorf("invalid or expired OTP")
		}
	} else if !a.store.CheckOTP(mobile, code) {
		return nil, fmt.Errorf("invalid or expired OTP")
	}
	user := a.store.FindOrCreateUser(mobile)
	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, err
	}
	return &api.VerifyResult{
		Token: token,
		User: api.Principal{
			ID:           user.ID,
			MobileNumber: user.MobileNumber,
			Role:         user.Role,
			AdminProfile: user.AdminProfile,
			IsActive:     user.IsActive,
		},
	}, nil
}

// Authenticate validates a bearer token and returns the account it names.
func (a *Auth) Authenticate(r *http.Request) (*api.User, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	sub, _ := claims["sub"].(string)
	user, ok := a.store.UserByID(sub)
	if !ok || !user.IsActive {
		return nil, fmt.Errorf("unknown or inactive account")
	}
	return user, nil
}

// Middleware rejects requests without a valid token and stashes the
// principal in the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, user)))
	})
}

// RequireRole wraps a handler with a role check on top of Middleware.
func (a *Auth) RequireRole(roles ...api.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := PrincipalFrom(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Insufficient role")
		})
	}
}

// PrincipalFrom returns the authenticated account from the context.
func PrincipalFrom(ctx context.Context) *api.User {
	user, _ := ctx.Value(principalKey).(*api.User)
	return user
}
