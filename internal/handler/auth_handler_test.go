package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/kakeibo/internal/model"
)

type mockAccountService struct {
	registerFn        func(ctx context.Context, email, username, plainPassword string) (*model.User, error)
	loginFn           func(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error)
	logoutFn          func(ctx context.Context, sessionID string) error
	getCurrentUserFn  func(ctx context.Context, sessionID string) (*model.User, error)
	resetCredentialFn func(ctx context.Context, email, newPassword string) error
}

func (m *mockAccountService) Register(ctx context.Context, email, username, plainPassword string) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, username, plainPassword)
	}
	return &model.User{ID: "u1", Email: email, Username: username}, nil
}

func (m *mockAccountService) Login(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, plainPassword)
	}
	return &model.User{ID: "u1", Username: username}, &model.Session{ID: "s1", UserID: "u1"}, nil
}

func (m *mockAccountService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAccountService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return nil, model.NewUnauthorizedError()
}

func (m *mockAccountService) ResetCredential(ctx context.Context, email, newPassword string) error {
	if m.resetCredentialFn != nil {
		return m.resetCredentialFn(ctx, email, newPassword)
	}
	return nil
}

func testAuthHandler(svc AccountServiceInterface) *AuthHandler {
	return NewAuthHandler(svc, AuthHandlerConfig{SessionMaxAge: 86400})
}

func TestRegister_Success(t *testing.T) {
	h := testAuthHandler(&mockAccountService{})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"email":"taro@example.com","username":"taro","password":"Passw0rd!"}`))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("unexpected body: %v", body)
	}
	user, ok := body["user"].(map[string]any)
	if !ok || user["username"] != "taro" {
		t.Errorf("unexpected user in body: %v", body)
	}
}

func TestRegister_WeakPasswordReturns400(t *testing.T) {
	h := testAuthHandler(&mockAccountService{
		registerFn: func(_ context.Context, _, _, _ string) (*model.User, error) {
			return nil, model.NewWeakPasswordError([]string{"パスワードは8文字以上である必要があります"})
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"email":"taro@example.com","username":"taro","password":"weak"}`))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["code"] != model.ErrCodeWeakPassword {
		t.Errorf("code = %v, want WEAK_PASSWORD", body["code"])
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	h := testAuthHandler(&mockAccountService{})

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"taro","password":"Passw0rd!"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if sessionCookie.Value != "s1" || !sessionCookie.HttpOnly {
		t.Errorf("unexpected cookie: %+v", sessionCookie)
	}
}

func TestLogin_KeyedByUsername(t *testing.T) {
	var gotUsername string
	h := testAuthHandler(&mockAccountService{
		loginFn: func(_ context.Context, username, _ string) (*model.User, *model.Session, error) {
			gotUsername = username
			return &model.User{ID: "u1", Username: username}, &model.Session{ID: "s1", UserID: "u1"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"taro","password":"Passw0rd!"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if gotUsername != "taro" {
		t.Errorf("expected login keyed by username taro, got %q", gotUsername)
	}
}

func TestLogin_MissingUsernameReturns400(t *testing.T) {
	h := testAuthHandler(&mockAccountService{})

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"taro@example.com","password":"Passw0rd!"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_InvalidCredentialsReturns401(t *testing.T) {
	h := testAuthHandler(&mockAccountService{
		loginFn: func(_ context.Context, _, _ string) (*model.User, *model.Session, error) {
			return nil, nil, model.NewInvalidCredentialsError()
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"taro","password":"Wrong#123"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	var loggedOut string
	h := testAuthHandler(&mockAccountService{
		logoutFn: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "s1"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if loggedOut != "s1" {
		t.Errorf("expected session s1 to be destroyed, got %q", loggedOut)
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge != -1 {
			t.Errorf("expected cookie to be expired, got MaxAge=%d", c.MaxAge)
		}
	}
}

func TestMe_WithoutCookieReturns401(t *testing.T) {
	h := testAuthHandler(&mockAccountService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMe_WithValidSession(t *testing.T) {
	h := testAuthHandler(&mockAccountService{
		getCurrentUserFn: func(_ context.Context, sessionID string) (*model.User, error) {
			return &model.User{ID: "u1", Username: "taro"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "s1"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestResetPassword_Success(t *testing.T) {
	var resetEmail string
	h := testAuthHandler(&mockAccountService{
		resetCredentialFn: func(_ context.Context, email, _ string) error {
			resetEmail = email
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/reset-password",
		strings.NewReader(`{"email":"taro@example.com","new_password":"NewPass1!"}`))
	w := httptest.NewRecorder()

	h.ResetPassword(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if resetEmail != "taro@example.com" {
		t.Errorf("unexpected email: %q", resetEmail)
	}
}

func TestResetPassword_UnknownUserReturns404(t *testing.T) {
	h := testAuthHandler(&mockAccountService{
		resetCredentialFn: func(_ context.Context, _, _ string) error {
			return model.NewUserNotFoundError()
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/reset-password",
		strings.NewReader(`{"email":"nobody@example.com","new_password":"NewPass1!"}`))
	w := httptest.NewRecorder()

	h.ResetPassword(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
