package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account not activated")
)

const tokenLifetime = 24 * time.Hour

// AuthService handles registration and login. Registration creates an
// inactive account and fans a notification out to every admin; admin
// approval happens through the user service.
type AuthService struct {
	users      ports.UserRepository
	notifier   ports.Notifier
	dispatcher ports.Dispatcher
	privateKey *rsa.PrivateKey
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	users ports.UserRepository,
	notifier ports.Notifier,
	dispatcher ports.Dispatcher,
	privateKey *rsa.PrivateKey,
) *AuthService {
	return &AuthService{
		users:      users,
		notifier:   notifier,
		dispatcher: dispatcher,
		privateKey: privateKey,
	}
}

func (s *AuthService) Register(ctx context.Context, params ports.RegisterParams) (*domain.User, error) {
	if params.Email == "" || params.Password == "" || params.Matricule == "" {
		return nil, fmt.Errorf("%w: matricule, email and password are required", domain.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Matricule:    params.Matricule,
		Email:        params.Email,
		PasswordHash: string(hash),
		LastName:     params.LastName,
		FirstName:    params.FirstName,
		Phone:        params.Phone,
		BirthInfo:    params.BirthInfo,
		Role:         domain.RoleStudent,
		LevelID:      params.LevelID,
		Active:       false,
	})
	if err != nil {
		return nil, err
	}

	notifs, err := s.notifier.NotifyAdminsOfRegistration(ctx, user)
	if err != nil {
		// The account exists either way; admins just won't see a row.
		log.Printf("auth service: registration fan-out failed for %s: %v", user.Email, err)
	}

	evt := ports.NotificationEvent{
		Kind: ports.PayloadRequestNotification,
		Type: domain.NotifRegistration,
	}
	if len(notifs) > 0 {
		evt.Notification = &notifs[0]
	} else {
		evt.Kind = ports.PayloadPlainMessage
		evt.Message = fmt.Sprintf("New registration awaiting validation: %s", user.FullName())
	}

	if emails, err := s.users.ListEmailsByRole(ctx, domain.RoleAdmin); err != nil {
		log.Printf("auth service: listing admin emails failed: %v", err)
	} else if len(emails) > 0 {
		identifier := user.Matricule
		if identifier == "" {
			identifier = user.Email
		}
		evt.EmailRecipients = emails
		evt.EmailSubject = "Action required: new registration awaiting validation"
		evt.EmailBody = fmt.Sprintf(
			"The user %s (matricule/email: %s) has registered and their account is currently pending. Your validation is required to give them access to the platform.",
			user.FullName(), identifier)
	}

	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		log.Printf("auth service: registration dispatch failed for %s: %v", user.Email, err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, ErrInactiveAccount
	}

	claims := jwt.MapClaims{
		"sub":       user.ID,
		"role":      string(user.Role),
		"matricule": user.Matricule,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(tokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
