// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/constants"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/sanitize"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/domain/validation"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword is hashed once and compared against when the account is
// unknown, so a miss costs the same bcrypt work as a wrong password.
const dummyPassword = "gatekeeper-dummy-password"

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	codec       service.TokenCodec
	publisher   service.EventPublisher
	logger      *slog.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Codec       service.TokenCodec
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		codec:       params.Codec,
		publisher:   params.Publisher,
		logger:      params.Logger,
		now:         time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. It does not log the caller in.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) error {
	fields := sanitize.Fields(map[string]any{
		"name":     input.Name,
		"password": input.Password,
		"jobTitle": input.JobTitle,
	})

	name, _ := fields["name"].(string)
	srv.log(ctx).Info("Starting registration", slog.String("name", name))

	if name != "" {
		_, err := srv.accountRepo.FindByName(ctx, name)
		switch {
		case err == nil:
			return errors.Wrap(domainerrors.ErrDuplicateAccount, "registration pre-check")
		case !errors.Is(err, repository.ErrAccountNotFound):
			return srv.storeError(ctx, err, "failed to look up account")
		}
	}

	report := validation.Validate(fields, validation.AccountRules)
	srv.log(ctx).Debug("Registration input validated", slog.Bool("passes", report.Passes()), slog.Any("errors", report.Errors))
	if !report.Passes() {
		return domainerrors.NewValidationError(report.Errors)
	}

	password, _ := fields["password"].(string)
	passwordHash, err := srv.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	account := &entity.Account{
		Name:         name,
		PasswordHash: passwordHash,
		JobTitle:     optionalString(fields["jobTitle"]),
	}
	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountAlreadyExists) {
			return errors.Wrap(domainerrors.ErrDuplicateAccount, "registration insert")
		}

		return srv.storeError(ctx, err, "failed to create account")
	}

	srv.log(ctx).Info("Registration completed", slog.Any("accountID", account.ID))
	srv.publish(ctx, constants.AccountEventRegistered, account.Name, "")

	return nil
}

// Authenticate verifies the credentials and issues a token bound to the account name.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthenticateOutput, error) {
	fields := sanitize.Fields(map[string]any{
		"name":     input.Name,
		"password": input.Password,
	})
	name, nameOK := fields["name"].(string)
	password, _ := fields["password"].(string)

	var account *entity.Account
	if nameOK && name != "" {
		found, err := srv.accountRepo.FindByName(ctx, name)
		switch {
		case err == nil:
			account = found
		case !errors.Is(err, repository.ErrAccountNotFound):
			return nil, srv.storeError(ctx, err, "failed to look up account")
		}
	}

	if account == nil {
		srv.burnDummyCompare(password)
		srv.log(ctx).Warn("Authentication failed")

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	ok, err := srv.hasher.Check(password, account.PasswordHash)
	if err != nil {
		srv.log(ctx).Error("Stored password hash is unusable", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, "password check")
	}
	if !ok {
		srv.log(ctx).Warn("Authentication failed")

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	token, err := srv.issueToken(account.Name)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Authentication succeeded", slog.Any("accountID", account.ID))

	return &usecase.AuthenticateOutput{Token: token}, nil
}

// Inspect returns the public fields of the token's account and echoes the token.
func (srv *accountService) Inspect(ctx context.Context, input *usecase.InspectInput) (*usecase.AccountOutput, error) {
	account, err := srv.accountForToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	return &usecase.AccountOutput{
		Name:     account.Name,
		JobTitle: account.JobTitleOrEmpty(),
		Token:    input.Token,
	}, nil
}

// Modify applies the supplied fields and re-issues a token for the resulting name.
func (srv *accountService) Modify(ctx context.Context, input *usecase.ModifyInput) (*usecase.AccountOutput, error) {
	account, err := srv.accountForToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	fields := sanitize.Fields(map[string]any{
		"newName":     input.NewName,
		"newJobTitle": input.NewJobTitle,
	})
	report := validation.Validate(fields, validation.ModifyRules)
	if !report.Passes() {
		return nil, domainerrors.NewValidationError(report.Errors)
	}

	previousName := account.Name
	if newName, ok := fields["newName"].(string); ok && newName != "" && newName != account.Name {
		_, err := srv.accountRepo.FindByName(ctx, newName)
		switch {
		case err == nil:
			return nil, errors.Wrap(domainerrors.ErrDuplicateAccount, "rename pre-check")
		case !errors.Is(err, repository.ErrAccountNotFound):
			return nil, srv.storeError(ctx, err, "failed to look up account")
		}
		account.Name = newName
	}
	if jobTitle := optionalString(fields["newJobTitle"]); jobTitle != nil {
		account.JobTitle = jobTitle
	}

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			return nil, errors.WithStack(domainerrors.ErrAccountNotFound)
		case errors.Is(err, repository.ErrAccountAlreadyExists):
			return nil, errors.Wrap(domainerrors.ErrDuplicateAccount, "rename update")
		default:
			return nil, srv.storeError(ctx, err, "failed to update account")
		}
	}

	token, err := srv.issueToken(account.Name)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account modified", slog.Any("accountID", account.ID), slog.Bool("renamed", previousName != account.Name))
	srv.publish(ctx, constants.AccountEventModified, account.Name, previousName)

	return &usecase.AccountOutput{
		Name:     account.Name,
		JobTitle: account.JobTitleOrEmpty(),
		Token:    token,
	}, nil
}

// Delete removes the token's account. Confirmation is checked before the token is even decoded.
func (srv *accountService) Delete(ctx context.Context, input *usecase.DeleteInput) error {
	if !input.Confirm {
		return errors.WithStack(domainerrors.ErrConfirmationRequired)
	}

	claims, err := srv.codec.Decode(input.Token)
	if err != nil {
		return err
	}

	account, err := srv.accountRepo.DeleteByName(ctx, claims.Name)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return errors.WithStack(domainerrors.ErrAccountNotFound)
		}

		return srv.storeError(ctx, err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.Any("accountID", account.ID))
	srv.publish(ctx, constants.AccountEventDeleted, account.Name, "")

	return nil
}

func (srv *accountService) accountForToken(ctx context.Context, token string) (*entity.Account, error) {
	claims, err := srv.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	account, err := srv.accountRepo.FindByName(ctx, claims.Name)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.WithStack(domainerrors.ErrAccountNotFound)
		}

		return nil, srv.storeError(ctx, err, "failed to look up account")
	}

	return account, nil
}

func (srv *accountService) issueToken(name string) (string, error) {
	token, err := srv.codec.Encode(entity.Claims{
		Name:     name,
		IssuedAt: srv.now().UTC().Truncate(time.Second),
	})
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	return token, nil
}

func (srv *accountService) burnDummyCompare(password string) {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err != nil {
			srv.logger.Error("Failed to prepare dummy password hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})
	if srv.dummyHash == "" {
		return
	}

	_, _ = srv.hasher.Check(password, srv.dummyHash)
}

func (srv *accountService) storeError(ctx context.Context, err error, details string) error {
	srv.log(ctx).Error("Account store failure", slog.String("operation", details), slog.Any("error", err))

	return domainerrors.NewStoreError(err, details)
}

// publish emits an account event. Delivery is best-effort and never fails the operation.
func (srv *accountService) publish(ctx context.Context, eventType, name, previousName string) {
	if srv.publisher == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventID:    uuid.New().String(),
		Type:       eventType,
		Name:       name,
		OccurredAt: srv.now().UTC(),
	}
	if previousName != name {
		event.PreviousName = previousName
	}

	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("type", eventType),
			slog.String("event_id", event.EventID),
			slog.Any("error", err),
		)
	}
}

func optionalString(value any) *string {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}

	return &s
}
