package app

import (
	"errors"
	"testing"

	"vuedubooks/pkg/auth"
	"vuedubooks/pkg/domain"
)

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Ayesha",
		Email:    "Ayesha@Example.com",
		Password: "hunter22",
		Phone:    "03001234567",
		Role:     "seller",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	a, _, _ := newTestApp(t)

	user, token, err := a.Register(registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ayesha@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != domain.RoleSeller {
		t.Fatalf("role = %s, want seller", user.Role)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Fatalf("password stored badly")
	}
	if token == "" {
		t.Fatalf("no token issued")
	}

	got, err := a.UserFromToken(token)
	if err != nil {
		t.Fatalf("user from token: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("token resolved to %q, want %q", got.ID, user.ID)
	}

	logged, token2, err := a.Login("AYESHA@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID || token2 == "" {
		t.Fatalf("login resolved to %q", logged.ID)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, _, err := a.Register(registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := a.Register(registerInput()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	a, _, _ := newTestApp(t)

	short := registerInput()
	short.Password = "abc"
	if _, _, err := a.Register(short); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password: got %v", err)
	}

	noPhone := registerInput()
	noPhone.Phone = ""
	if _, _, err := a.Register(noPhone); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing phone: got %v", err)
	}

	badRole := registerInput()
	badRole.Role = "admin"
	if _, _, err := a.Register(badRole); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad role: got %v", err)
	}

	badWallet := registerInput()
	badWallet.Easypaisa = "0123"
	if _, _, err := a.Register(badWallet); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad easypaisa: got %v", err)
	}

	okWallet := registerInput()
	okWallet.Email = "wallet@example.com"
	okWallet.JazzCash = "03459876543"
	if _, _, err := a.Register(okWallet); err != nil {
		t.Fatalf("valid jazzcash rejected: %v", err)
	}
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, _, err := a.Register(registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, errUnknown := a.Login("nobody@example.com", "whatever1")
	_, _, errWrongPw := a.Login("ayesha@example.com", "wrongpass")
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("got %v / %v, want ErrInvalidCredentials for both", errUnknown, errWrongPw)
	}
}

func TestUserFromTokenRejectsBadToken(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.UserFromToken("garbage"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}
