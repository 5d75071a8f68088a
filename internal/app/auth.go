package app

import (
	"fmt"
	"regexp"
	"strings"

	"time"

	"vuedubooks/internal/util"
	"vuedubooks/pkg/auth"
	"vuedubooks/pkg/domain"
)

// Payment account identifiers are local mobile numbers: 11 digits starting
// with 03.
var mobileWalletPattern = regexp.MustCompile(`^03\d{9}$`)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	WhatsApp  string `json:"whatsapp"`
	Role      string `json:"role"`
	Address   string `json:"address"`
	Easypaisa string `json:"easypaisa"`
	JazzCash  string `json:"jazzcash"`
}

// Register creates a user account and issues a session token. Role defaults
// to buyer and is immutable afterwards.
func (a *App) Register(input RegisterInput) (domain.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)
	if name == "" || email == "" || input.Password == "" || phone == "" {
		return domain.User{}, "", fmt.Errorf("%w: please provide all required fields", ErrValidation)
	}
	if len(input.Password) < 6 {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	role := domain.RoleBuyer
	switch strings.TrimSpace(input.Role) {
	case "", string(domain.RoleBuyer):
	case string(domain.RoleSeller):
		role = domain.RoleSeller
	default:
		return domain.User{}, "", fmt.Errorf("%w: invalid role %q", ErrValidation, input.Role)
	}

	easypaisa := strings.TrimSpace(input.Easypaisa)
	if easypaisa != "" && !mobileWalletPattern.MatchString(easypaisa) {
		return domain.User{}, "", fmt.Errorf("%w: easypaisa number must be 11 digits starting with 03", ErrValidation)
	}
	jazzcash := strings.TrimSpace(input.JazzCash)
	if jazzcash != "" && !mobileWalletPattern.MatchString(jazzcash) {
		return domain.User{}, "", fmt.Errorf("%w: jazzcash number must be 11 digits starting with 03", ErrValidation)
	}

	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           util.NewEntityID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		WhatsApp:     strings.TrimSpace(input.WhatsApp),
		Role:         role,
		Address:      strings.TrimSpace(input.Address),
		Easypaisa:    easypaisa,
		JazzCash:     jazzcash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, "", fmt.Errorf("%w: please provide email and password", ErrValidation)
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// UserFromToken resolves a bearer token to its user.
func (a *App) UserFromToken(token string) (domain.User, error) {
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return domain.User{}, auth.ErrInvalidToken
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, auth.ErrInvalidToken
	}
	return user, nil
}
