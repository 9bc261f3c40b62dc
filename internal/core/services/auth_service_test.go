package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/services"
	"github.com/campus-hub/scolarite/student-docs-service/internal/mocks"
)

type authFixture struct {
	users      *mocks.MockUserRepository
	notifs     *mocks.MockNotificationRepository
	dispatcher *mocks.MockDispatcher
	key        *rsa.PrivateKey
	service    *services.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	f := &authFixture{
		users:      mocks.NewMockUserRepository(),
		notifs:     mocks.NewMockNotificationRepository(),
		dispatcher: mocks.NewMockDispatcher(),
		key:        key,
	}
	notifier := services.NewNotificationFanout(f.users, f.notifs)
	f.service = services.NewAuthService(f.users, notifier, f.dispatcher, key)
	return f
}

func TestAuthServiceRegister(t *testing.T) {
	f := newAuthFixture(t)
	f.users.Seed(domain.User{ID: "admin-1", Email: "admin@univ.test", Role: domain.RoleAdmin})

	user, err := f.service.Register(context.Background(), ports.RegisterParams{
		Matricule: "ET-2026-001",
		Email:     "ada@univ.test",
		Password:  "secret-pass",
		LastName:  "Lovelace",
		FirstName: "Ada",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Active {
		t.Errorf("new accounts start inactive")
	}
	if user.Role != domain.RoleStudent {
		t.Errorf("public registration always creates students, got %s", user.Role)
	}
	if user.PasswordHash == "secret-pass" || user.PasswordHash == "" {
		t.Errorf("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-pass")) != nil {
		t.Errorf("stored hash must verify against the password")
	}

	// Admin fan-out row plus a staff-channel event with the admin email.
	if len(f.notifs.CreateBatchCalls) != 1 || len(f.notifs.CreateBatchCalls[0]) != 1 {
		t.Fatalf("expected one admin notification row")
	}
	if len(f.dispatcher.Events) != 1 {
		t.Fatalf("expected one dispatched event")
	}
	evt := f.dispatcher.Events[0]
	if evt.Type != domain.NotifRegistration || evt.TargetUserID != "" {
		t.Errorf("registration events go to the staff channel: %+v", evt)
	}
	if len(evt.EmailRecipients) != 1 || evt.EmailRecipients[0] != "admin@univ.test" {
		t.Errorf("expected admin email recipients, got %v", evt.EmailRecipients)
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Register(context.Background(), ports.RegisterParams{Email: "x@univ.test"})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("missing fields must be rejected, got %v", err)
	}
}

func TestAuthServiceRegisterDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.users.Seed(domain.User{ID: "u1", Matricule: "ET-1", Email: "taken@univ.test", Role: domain.RoleStudent})

	_, err := f.service.Register(context.Background(), ports.RegisterParams{
		Matricule: "ET-2",
		Email:     "taken@univ.test",
		Password:  "pw",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate email must conflict, got %v", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	f := newAuthFixture(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.DefaultCost)
	f.users.Seed(domain.User{
		ID:           "stu-1",
		Matricule:    "ET-1",
		Email:        "ada@univ.test",
		PasswordHash: string(hash),
		Role:         domain.RoleStudent,
		Active:       true,
	})
	f.users.Seed(domain.User{
		ID:           "stu-2",
		Email:        "pending@univ.test",
		PasswordHash: string(hash),
		Role:         domain.RoleStudent,
		Active:       false,
	})

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid_login", email: "ada@univ.test", password: "right-pass"},
		{name: "wrong_password", email: "ada@univ.test", password: "wrong", wantErr: services.ErrInvalidCredentials},
		{name: "unknown_email", email: "nobody@univ.test", password: "right-pass", wantErr: services.ErrInvalidCredentials},
		{name: "inactive_account", email: "pending@univ.test", password: "right-pass", wantErr: services.ErrInactiveAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := f.service.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != "stu-1" {
				t.Errorf("wrong user returned")
			}

			parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
				return &f.key.PublicKey, nil
			})
			if err != nil || !parsed.Valid {
				t.Fatalf("issued token must verify: %v", err)
			}
			claims := parsed.Claims.(jwt.MapClaims)
			if claims["sub"] != "stu-1" || claims["role"] != "student" {
				t.Errorf("wrong claims: %v", claims)
			}
		})
	}
}
