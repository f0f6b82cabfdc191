package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/repository"
	"github.com/fastygo/tasklists/usecase"
)

const tokenType = "bearer"

// TokenIssuer signs access tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, time.Duration, error)
}

type UseCase struct {
	clients  repository.ClientRepository
	issuer   TokenIssuer
	logger   *zap.Logger
	now      usecase.Clock
	hashCost int
	// decoy is compared against when the client id is unknown, so a miss costs
	// the same as a wrong secret.
	decoy []byte
}

type Option func(*UseCase)

func WithClock(clock usecase.Clock) Option {
	return func(uc *UseCase) { uc.now = clock }
}

// WithHashCost overrides the bcrypt cost used for new client secrets.
func WithHashCost(cost int) Option {
	return func(uc *UseCase) { uc.hashCost = cost }
}

func New(clients repository.ClientRepository, issuer TokenIssuer, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		clients:  clients,
		issuer:   issuer,
		logger:   logger,
		now:      usecase.SystemClock,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.decoy, _ = bcrypt.GenerateFromPassword([]byte("decoy-secret"), uc.hashCost)
	return uc
}

// Exchange trades a client id and secret for a signed access token.
func (uc *UseCase) Exchange(ctx context.Context, clientID, secret string) (*domain.Token, error) {
	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.StoreError(err)
		}
		_ = bcrypt.CompareHashAndPassword(uc.decoy, []byte(secret))
		uc.logger.Info("token exchange for unknown client", zap.String("client_id", clientID))
		return nil, domain.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		uc.logger.Info("token exchange with wrong secret", zap.String("client_id", clientID))
		return nil, domain.ErrBadCredentials
	}

	signed, ttl, err := uc.issuer.Issue(client.ID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}
	return &domain.Token{
		AccessToken: signed,
		TokenType:   tokenType,
		ExpiresIn:   int(ttl.Seconds()),
	}, nil
}

type RegisterInput struct {
	ClientID     string
	ClientSecret string
	Name         string
}

// Register stores a new client credential. The secret is kept only as a bcrypt hash.
func (uc *UseCase) Register(ctx context.Context, subject string, in RegisterInput) (*domain.Client, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.ClientSecret), uc.hashCost)
	if err != nil {
		return nil, domain.Validation(domain.FieldError{Field: "client_secret", Message: err.Error()})
	}

	client := &domain.Client{
		ID:           in.ClientID,
		Name:         in.Name,
		SecretHash:   string(hash),
		RegisteredBy: subject,
		CreatedAt:    uc.now(),
	}
	if err := uc.clients.Create(ctx, client); err != nil {
		return nil, domain.StoreError(err)
	}
	uc.logger.Info("client registered", zap.String("client_id", client.ID), zap.String("registered_by", subject))
	return client, nil
}
