// Package service contains the account and subscription logic together
// with the mail delivery and background jobs it relies on
package service

import (
	"bitwise74/tracker-api/internal/errs"
	"bitwise74/tracker-api/internal/model"
	"bitwise74/tracker-api/internal/store"
	"bitwise74/tracker-api/pkg/security"
	"bitwise74/tracker-api/pkg/util"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	MsgEmailUnavailable = "The email you provided is not available!"
	MsgAlreadyVerified  = "Email is already verified!"
	MsgVerified         = "Email was successfully verified!"
	MsgNotVerified      = "Email was NOT verified! Please re-register to resend the verification link."
	MsgUserNotFound     = "User not found"

	// Shared by wrong passwords and unverified accounts
	MsgLoginFailed = "Username or password was incorrect, or the user has not been verified by email."
)

// VerifyResult is the outcome of a verification attempt. A failed attempt
// is not an error, Active tells the two apart.
type VerifyResult struct {
	Active  bool
	Message string
}

// AccountService moves accounts from absent to pending to active.
type AccountService struct {
	users    *store.UserStore
	tokens   *store.TokenStore
	argon    *security.ArgonHash
	sessions *security.SessionSigner
	mailer   Mailer
	checker  EmailChecker
}

func NewAccountService(
	users *store.UserStore,
	tokens *store.TokenStore,
	argon *security.ArgonHash,
	sessions *security.SessionSigner,
	mailer Mailer,
	checker EmailChecker,
) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		argon:    argon,
		sessions: sessions,
		mailer:   mailer,
		checker:  checker,
	}
}

// Register creates a pending account for a new email, or resends the
// verification mail of a pending one. It returns the address the mail
// went to. Registering an active account fails with
// errs.ErrAlreadyVerified.
func (s *AccountService) Register(ctx context.Context, email, password string) (string, error) {
	ok, err := s.checker.Exists(ctx, email)
	if err != nil {
		zap.L().Debug("Email existence check failed", zap.String("email", email), zap.Error(err))
	}

	if !ok {
		return "", errs.Wrap(errs.ErrEmailUnreachable, MsgEmailUnavailable, err)
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if u == nil {
		u, err = s.create(ctx, email, password)
		if err != nil {
			return "", err
		}
	}

	if u.Active {
		return "", errs.New(errs.ErrAlreadyVerified, "This email is already verified. Please login instead")
	}

	if err := s.sendVerification(ctx, u); err != nil {
		return "", err
	}

	return u.Email, nil
}

// create stores a new pending account. If a concurrent registration
// of the same email won, its account is returned instead.
func (s *AccountService) create(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	id, err := util.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID, %w", err)
	}

	u := &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.users.Create(ctx, u)
	if errors.Is(err, errs.ErrDuplicate) {
		u, err = s.users.FindByEmail(ctx, email)
		if err == nil && u == nil {
			err = errors.New("user vanished after duplicate insert")
		}
	}
	if err != nil {
		return nil, err
	}

	return u, nil
}

// sendVerification mails the account's token, creating it first if the
// account doesn't have one yet.
func (s *AccountService) sendVerification(ctx context.Context, u *model.User) error {
	tok, err := s.tokens.FindByUser(ctx, u.ID)
	if err != nil {
		return err
	}

	if tok == nil {
		tok, err = security.MakeVerificationToken(u.ID)
		if err != nil {
			return fmt.Errorf("failed to generate verification token, %w", err)
		}

		err = s.tokens.Create(ctx, tok)
		if errors.Is(err, errs.ErrDuplicate) {
			tok, err = s.tokens.FindByUser(ctx, u.ID)
			if err == nil && tok == nil {
				err = errors.New("verification token vanished after duplicate insert")
			}
		}
		if err != nil {
			return err
		}
	}

	return s.mailer.SendVerification(ctx, u.Email, tok.Token)
}

// Verify activates a pending account if token matches its verification
// token. The token stays valid afterwards.
func (s *AccountService) Verify(ctx context.Context, email, token string) (VerifyResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return VerifyResult{}, err
	}

	if u == nil {
		return VerifyResult{}, errs.New(errs.ErrNotFound, MsgUserNotFound)
	}

	if u.Active {
		return VerifyResult{Active: true, Message: MsgAlreadyVerified}, nil
	}

	tok, err := s.tokens.FindByUser(ctx, u.ID)
	if err != nil {
		return VerifyResult{}, err
	}

	if tok == nil || token == "" || subtle.ConstantTimeCompare([]byte(tok.Token), []byte(token)) != 1 {
		return VerifyResult{Message: MsgNotVerified}, nil
	}

	if err := s.users.Activate(ctx, u.ID); err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{Active: true, Message: MsgVerified}, nil
}

// Login returns a session token. A wrong password and an unverified
// account produce the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if u == nil {
		return "", errs.New(errs.ErrNotFound, MsgUserNotFound)
	}

	ok, err := s.argon.VerifyPasswd(password, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok || !u.Active {
		return "", errs.New(errs.ErrUnauthorized, MsgLoginFailed)
	}

	token, err := s.sessions.Issue(u.ID, u.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token, %w", err)
	}

	return token, nil
}
