package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

const minPasswordLength = 6

var (
	errInvalidCredentials = errors.New("Invalid credentials")
	errEmailExists        = errors.New("Email already exists")
	errUnauthorizedUser   = errors.New("Unauthorized user")
)

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	User         *types.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	clock         clock.Clock
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	clk clock.Clock,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if clk == nil {
		clk = clock.System()
	}
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		clock:         clk,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, apierr.Validation("Name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apierr.Validation("A valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.BadRequest("validation", fmt.Errorf("Password must be at least %d characters", minPasswordLength))
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(as.log, "auth.signup", err)
	}

	var out *AuthResult
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(dbc, email)
		if err != nil {
			return err
		}
		if exists {
			return apierr.BadRequest("email_exists", errEmailExists)
		}
		user := &types.User{Name: name, Email: email, Password: string(hashed)}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return err
		}
		res, err := as.issueSession(dbc, user)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		if apiErr, ok := apierr.From(err); ok {
			return nil, apiErr
		}
		return nil, internalError(as.log, "auth.signup", err)
	}
	as.log.Info("User signed up", "user_id", out.User.ID)
	return out, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierr.Unauthorized(errInvalidCredentials)
	}
	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, internalError(as.log, "auth.login", err)
	}
	if user == nil {
		return nil, apierr.Unauthorized(errInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized(errInvalidCredentials)
	}
	dbc := dbctx.New(ctx)
	if _, err := as.userTokenRepo.DeleteExpired(dbc, user.ID, as.clock.Now()); err != nil {
		as.log.Warn("Expired session purge failed", "user_id", user.ID, "error", err)
	}
	res, err := as.issueSession(dbc, user)
	if err != nil {
		return nil, internalError(as.log, "auth.login", err)
	}
	return res, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Unauthorized(errors.New("Refresh token is required"))
	}
	var out *AuthResult
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return err
		}
		if len(found) == 0 || found[0] == nil {
			return apierr.Unauthorized(errors.New("Invalid refresh token"))
		}
		existing := found[0]
		if existing.ExpiresAt.Before(as.clock.Now()) {
			if err := as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
				return err
			}
			return apierr.Unauthorized(errors.New("Refresh token expired"))
		}
		users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return apierr.Unauthorized(errUnauthorizedUser)
		}
		if err := as.userTokenRepo.DeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return err
		}
		res, err := as.issueSession(dbc, users[0])
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		if apiErr, ok := apierr.From(err); ok {
			return nil, apiErr
		}
		return nil, internalError(as.log, "auth.refresh", err)
	}
	return out, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized(errUnauthorizedUser)
	}
	dbc := dbctx.Context{Ctx: ctx}
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
	if err != nil {
		return internalError(as.log, "auth.logout", err)
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, t := range found {
		if t != nil {
			ids = append(ids, t.ID)
		}
	}
	if err := as.userTokenRepo.DeleteByIDs(dbc, ids); err != nil {
		return internalError(as.log, "auth.logout", err)
	}
	return nil
}

// issueSession signs an access token and stores it with a fresh refresh token.
func (as *authService) issueSession(dbc dbctx.Context, user *types.User) (*AuthResult, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	row := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    as.clock.Now().Add(as.refreshTTL).UTC(),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.clock.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates a bearer token and attaches the caller to ctx.
// The token must verify and its session row must still exist.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized(errUnauthorizedUser)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.clock.Now),
	)
	if err != nil {
		return ctx, apierr.Unauthorized(fmt.Errorf("Invalid token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized(errors.New("Invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, apierr.Unauthorized(errors.New("Invalid user id in token"))
	}
	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		as.log.Warn("Error fetching user token by access token", "error", err)
		return ctx, internalError(as.log, "auth.token", err)
	}
	if len(found) == 0 || found[0] == nil || found[0].UserID != userID {
		return ctx, apierr.Unauthorized(errors.New("Session not found"))
	}
	rd := &ctxutil.RequestData{TokenString: tokenString, UserID: userID}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
