package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/requestdata"
	"github.com/praxishq/praxis-backend/internal/types"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	rows []*types.User
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.User) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, row := range r.rows {
		for _, id := range ids {
			if row.ID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, row := range r.rows {
		for _, email := range emails {
			if row.Email == email {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

type fakeUserTokenRepo struct {
	mu   sync.Mutex
	rows []*types.UserToken
}

func (r *fakeUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserToken) (*types.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	return row, nil
}

func (r *fakeUserTokenRepo) GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.AccessToken == accessToken {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeUserTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.RefreshToken == refreshToken {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeUserTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type authFixture struct {
	svc    AuthService
	users  *fakeUserRepo
	tokens *fakeUserTokenRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := &fakeUserRepo{}
	tokens := &fakeUserTokenRepo{}
	svc := NewAuthService(nil, testLogger(t), users, tokens, "test-secret", time.Hour, 24*time.Hour)
	return &authFixture{svc: svc, users: users, tokens: tokens}
}

func (f *authFixture) register(t *testing.T, email, password string) *types.User {
	t.Helper()
	u := &types.User{Email: email, Password: password, FirstName: "Ada", LastName: "Lovelace"}
	if err := f.svc.RegisterUser(context.Background(), u); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	return u
}

func TestRegisterHashesPassword(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "Ada@Example.com", "correct horse battery")

	if u.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Password == "correct horse battery" || !strings.HasPrefix(u.Password, "$2") {
		t.Fatalf("password stored in the clear")
	}
	if u.ID == uuid.Nil {
		t.Fatalf("no id assigned")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	f := newAuthFixture(t)
	cases := []*types.User{
		{Email: "not-an-email", Password: "longenough"},
		{Email: "ada@example.com", Password: "short"},
	}
	for _, u := range cases {
		err := f.svc.RegisterUser(context.Background(), u)
		if !apierr.IsCode(err, apierr.CodeValidation) {
			t.Fatalf("expected validation error for %q, got %v", u.Email, err)
		}
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com", "correct horse battery")

	err := f.svc.RegisterUser(context.Background(), &types.User{Email: "ada@example.com", Password: "another password"})
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "ada@example.com", "correct horse battery")

	access, refresh, err := f.svc.LoginUser(context.Background(), "ADA@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("bad token pair: access=%q refresh=%q", access, refresh)
	}

	ctx, err := f.svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := requestdata.UserID(ctx); got != u.ID {
		t.Fatalf("context user = %s, want %s", got, u.ID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com", "correct horse battery")

	if _, _, err := f.svc.LoginUser(context.Background(), "ada@example.com", "wrong"); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, _, err := f.svc.LoginUser(context.Background(), "nobody@example.com", "whatever"); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden for unknown user, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com", "correct horse battery")

	access, _, err := f.svc.LoginUser(context.Background(), "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	ctx, err := f.svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}

	if err := f.svc.LogoutUser(ctx); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}

	// The JWT is still well formed but its row is gone.
	if _, err := f.svc.SetContextFromToken(context.Background(), access); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden after logout, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com", "correct horse battery")

	access, _, err := f.svc.LoginUser(context.Background(), "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	ctx, err := f.svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}

	newAccess, newRefresh, err := f.svc.RefreshUser(ctx)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatalf("empty rotated tokens")
	}
	if _, err := f.svc.SetContextFromToken(context.Background(), access); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("old access token should be revoked, got %v", err)
	}
	if _, err := f.svc.SetContextFromToken(context.Background(), newAccess); err != nil {
		t.Fatalf("rotated token rejected: %v", err)
	}
}

func TestTokenFromAnotherSecretRejected(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com", "correct horse battery")

	other := NewAuthService(nil, testLogger(t), f.users, f.tokens, "other-secret", time.Hour, 24*time.Hour)
	access, _, err := other.LoginUser(context.Background(), "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	if _, err := f.svc.SetContextFromToken(context.Background(), access); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden for foreign signature, got %v", err)
	}
}
