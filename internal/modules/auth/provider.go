// README: Firebase-backed identity provider: admin SDK for accounts, Identity Toolkit for password sign-in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// Accounts is the subset of the Firebase admin client the provider uses.
type Accounts interface {
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Credentials exchanges end-user credentials for tokens.
type Credentials interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	SignInWithIdP(ctx context.Context, providerID, providerToken, requestURI string) (Session, error)
	SendPasswordReset(ctx context.Context, email string) error
}

type Provider struct {
	accounts Accounts
	creds    Credentials
	events   *Hub
	log      *slog.Logger
	now      func() time.Time
}

func NewProvider(accounts Accounts, creds Credentials, events *Hub, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if events == nil {
		events = NewHub()
	}
	return &Provider{
		accounts: accounts,
		creds:    creds,
		events:   events,
		log:      logger.With("module", "auth"),
		now:      time.Now,
	}
}

func (p *Provider) Events() *Hub { return p.events }

func (p *Provider) emit(t EventType, uid, email string) {
	p.events.Publish(Event{Type: t, UID: uid, Email: email, At: p.now().UTC()})
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if err := checkCredentials(email, password); err != nil {
		return Session{}, err
	}
	user := (&fbauth.UserToCreate{}).Email(email).Password(password)
	if _, err := p.accounts.CreateUser(ctx, user); err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return Session{}, ErrEmailTaken
		}
		p.log.ErrorContext(ctx, "create user failed", "err", err)
		return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p.SignIn(ctx, email, password)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrBadRequest
	}
	s, err := p.creds.SignInWithPassword(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	p.emit(EventSignedIn, s.UID, s.Email)
	return s, nil
}

// SignInWithIdP completes a federated sign-in (e.g. "google.com") with the
// provider's ID token.
func (p *Provider) SignInWithIdP(ctx context.Context, providerID, providerToken, requestURI string) (Session, error) {
	if providerID == "" || providerToken == "" {
		return Session{}, ErrBadRequest
	}
	s, err := p.creds.SignInWithIdP(ctx, providerID, providerToken, requestURI)
	if err != nil {
		return Session{}, err
	}
	p.emit(EventSignedIn, s.UID, s.Email)
	return s, nil
}

// SignOut revokes every refresh token of uid.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if err := p.accounts.RevokeRefreshTokens(ctx, uid); err != nil {
		if fbauth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	p.emit(EventSignedOut, uid, "")
	return nil
}

// RequestPasswordReset sends the reset email. The recovery event is emitted
// even when the address is unknown so callers cannot probe for accounts.
func (p *Provider) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrBadRequest
	}
	if err := p.creds.SendPasswordReset(ctx, email); err != nil && !errors.Is(err, ErrUserNotFound) {
		return err
	}
	p.emit(EventPasswordRecovery, "", email)
	return nil
}

func (p *Provider) UpdatePassword(ctx context.Context, uid, password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrBadRequest, minPasswordLen)
	}
	if _, err := p.accounts.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).Password(password)); err != nil {
		if fbauth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	p.emit(EventUserUpdated, uid, "")
	return nil
}

// Inspect returns the account behind an authenticated session.
func (p *Provider) Inspect(ctx context.Context, uid string) (User, error) {
	rec, err := p.accounts.GetUser(ctx, uid)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return User{UID: rec.UID, Email: rec.Email, DisplayName: rec.DisplayName}, nil
}

func checkCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrBadRequest)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrBadRequest, minPasswordLen)
	}
	return nil
}

// IdentityToolkit implements Credentials with the Identity Toolkit REST API.
type IdentityToolkit struct {
	svc *identitytoolkit.Service
}

func NewIdentityToolkit(ctx context.Context, webAPIKey string) (*IdentityToolkit, error) {
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit.NewService: %w", err)
	}
	return &IdentityToolkit{svc: svc}, nil
}

func (k *IdentityToolkit) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	resp, err := k.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		if err = toolkitError(err); errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	return Session{UID: resp.LocalId, Email: resp.Email, IDToken: resp.IdToken, RefreshToken: resp.RefreshToken}, nil
}

func (k *IdentityToolkit) SignInWithIdP(ctx context.Context, providerID, providerToken, requestURI string) (Session, error) {
	if requestURI == "" {
		requestURI = "http://localhost"
	}
	body := url.Values{"id_token": {providerToken}, "providerId": {providerID}}
	resp, err := k.svc.Relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          body.Encode(),
		RequestUri:        requestURI,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return Session{}, toolkitError(err)
	}
	return Session{UID: resp.LocalId, Email: resp.Email, IDToken: resp.IdToken, RefreshToken: resp.RefreshToken}, nil
}

func (k *IdentityToolkit) SendPasswordReset(ctx context.Context, email string) error {
	_, err := k.svc.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		Email:       email,
		RequestType: "PASSWORD_RESET",
	}).Context(ctx).Do()
	if err != nil {
		return toolkitError(err)
	}
	return nil
}

func toolkitError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
		if strings.Contains(gerr.Message, "EMAIL_NOT_FOUND") {
			return ErrUserNotFound
		}
		return ErrInvalidCredentials
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
