package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/password"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByEmailFn      func(ctx context.Context, email string) (*model.User, error)
	findByUsernameFn   func(ctx context.Context, username string) (*model.User, error)
	findByIDFn         func(ctx context.Context, id string) (*model.User, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	createFn           func(ctx context.Context, user *model.User) error
	updateCredentialFn func(ctx context.Context, email, passwordHash string) error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdateCredential(ctx context.Context, email, passwordHash string) error {
	if m.updateCredentialFn != nil {
		return m.updateCredentialFn(ctx, email, passwordHash)
	}
	return nil
}

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockCollector struct {
	loginFailures int
}

func (m *mockCollector) RecordOTPIssued(_ string)          {}
func (m *mockCollector) RecordOTPValidation(_ string)      {}
func (m *mockCollector) RecordMailDelivery(_ bool)         {}
func (m *mockCollector) RecordMailLatency(_ time.Duration) {}
func (m *mockCollector) RecordHTTPStatus(_ int)            {}
func (m *mockCollector) RecordLoginFailure()               { m.loginFailures++ }

func newTestService(users *mockUserRepo, sessions *mockSessionRepo) *Service {
	return NewService(users, sessions, &mockCollector{},
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		ServiceConfig{SessionMaxAge: 86400})
}

func apiErrCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.Code
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	var created *model.User
	users := &mockUserRepo{
		createFn: func(_ context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	user, err := svc.Register(context.Background(), "taro@example.com", "taro", "Passw0rd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if created == nil {
		t.Fatal("expected user to be persisted")
	}
	// 平文は保存されない
	if created.PasswordHash == "Passw0rd!" {
		t.Error("expected password to be hashed")
	}
	if ok, _ := password.Verify("Passw0rd!", created.PasswordHash); !ok {
		t.Error("expected stored hash to verify against original password")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		existsByEmailFn: func(_ context.Context, _ string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "taro@example.com", "taro", "Passw0rd!")
	if got := apiErrCode(t, err); got != model.ErrCodeEmailAlreadyRegistered {
		t.Errorf("expected EMAIL_ALREADY_REGISTERED, got %s", got)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "u1", Username: "taro"}, nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "taro@example.com", "taro", "Passw0rd!")
	if got := apiErrCode(t, err); got != model.ErrCodeUsernameTaken {
		t.Errorf("expected USERNAME_TAKEN, got %s", got)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "taro@example.com", "taro", "weak")
	if got := apiErrCode(t, err); got != model.ErrCodeWeakPassword {
		t.Errorf("expected WEAK_PASSWORD, got %s", got)
	}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	hash, err := password.Hash("Passw0rd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var lookedUp string
	users := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			lookedUp = username
			return &model.User{ID: "u1", Email: "taro@example.com", Username: username, PasswordHash: hash}, nil
		},
	}
	var created *model.Session
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, session *model.Session) error {
			created = session
			return nil
		},
	}
	svc := newTestService(users, sessions)

	user, session, err := svc.Login(context.Background(), "taro", "Passw0rd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("expected user u1, got %s", user.ID)
	}
	// 検索キーはユーザー名
	if lookedUp != "taro" {
		t.Errorf("expected lookup by username taro, got %q", lookedUp)
	}
	if created == nil || session.UserID != "u1" {
		t.Fatal("expected session for u1")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("expected session expiry in the future")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := password.Hash("Passw0rd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "u1", PasswordHash: hash}, nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	_, _, err = svc.Login(context.Background(), "taro", "Wrong#123")
	if got := apiErrCode(t, err); got != model.ErrCodeInvalidCredentials {
		t.Errorf("expected INVALID_CREDENTIALS, got %s", got)
	}
}

func TestLogin_UnknownUsername(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	// 未登録ユーザー名もパスワード不一致と同じエラーになる
	_, _, err := svc.Login(context.Background(), "nobody", "Passw0rd!")
	if got := apiErrCode(t, err); got != model.ErrCodeInvalidCredentials {
		t.Errorf("expected INVALID_CREDENTIALS, got %s", got)
	}
}

// --- GetCurrentUser ---

func TestGetCurrentUser_ValidSession(t *testing.T) {
	users := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "taro"}, nil
		},
	}
	sessions := &mockSessionRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := newTestService(users, sessions)

	user, err := svc.GetCurrentUser(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("expected user u1, got %s", user.ID)
	}
}

func TestGetCurrentUser_InvalidSession(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	_, err := svc.GetCurrentUser(context.Background(), "missing")
	if got := apiErrCode(t, err); got != model.ErrCodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", got)
	}
}

// --- ResetCredential ---

func TestResetCredential_Success(t *testing.T) {
	var updatedHash string
	var revokedUserID string
	users := &mockUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "u1", Email: "taro@example.com"}, nil
		},
		updateCredentialFn: func(_ context.Context, _, passwordHash string) error {
			updatedHash = passwordHash
			return nil
		},
	}
	sessions := &mockSessionRepo{
		deleteByUserIDFn: func(_ context.Context, userID string) error {
			revokedUserID = userID
			return nil
		},
	}
	svc := newTestService(users, sessions)

	if err := svc.ResetCredential(context.Background(), "taro@example.com", "NewPass1!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := password.Verify("NewPass1!", updatedHash); !ok {
		t.Error("expected new password to verify against stored hash")
	}
	// 再設定後は既存セッションが失効する
	if revokedUserID != "u1" {
		t.Errorf("expected sessions of u1 to be revoked, got %q", revokedUserID)
	}
}

func TestResetCredential_UnknownEmail(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	err := svc.ResetCredential(context.Background(), "nobody@example.com", "NewPass1!")
	if got := apiErrCode(t, err); got != model.ErrCodeUserNotFound {
		t.Errorf("expected USER_NOT_FOUND, got %s", got)
	}
}

func TestResetCredential_WeakPassword(t *testing.T) {
	updated := false
	users := &mockUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "u1"}, nil
		},
		updateCredentialFn: func(_ context.Context, _, _ string) error {
			updated = true
			return nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	err := svc.ResetCredential(context.Background(), "taro@example.com", "weak")
	if got := apiErrCode(t, err); got != model.ErrCodeWeakPassword {
		t.Errorf("expected WEAK_PASSWORD, got %s", got)
	}
	if updated {
		t.Error("expected credential to remain unchanged")
	}
}
