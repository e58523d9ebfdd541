package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/notify"
	"github.com/saiyam0211/smart-urban-backend/internal/otp"
	"github.com/saiyam0211/smart-urban-backend/internal/repositories"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

// AuthResult is what a successful VerifyAndLogin returns: the signed
// credential plus the public identity fields.
type AuthResult struct {
	Token string
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
	Role  models.RoleType
}

// ---------------------------------------------------------------------
// AuthService interface
// ---------------------------------------------------------------------
type AuthService interface {
	// RequestCode issues an OTP for the contact and dispatches it over
	// the named channel. The ledger entry is written before dispatch,
	// so a delivery failure leaves the code valid for a retry.
	RequestCode(ctx context.Context, phone, email string, channel notify.Channel) (sentTo string, err error)

	// VerifyAndLogin validates a submitted code, resolves or lazily
	// provisions an identity of the declared role, and mints a session
	// credential. Every non-verified ledger outcome maps to a distinct
	// sentinel error with no side effects.
	VerifyAndLogin(ctx context.Context, phone, email string, channel notify.Channel, code string, role models.RoleType, name string) (*AuthResult, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------
type authService struct {
	ledger        *otp.Ledger
	gateway       notify.Gateway
	userRepo      repositories.UserRepository
	volunteerRepo repositories.VolunteerRepository
	tokenService  TokenService
	tokenExpiry   time.Duration
}

func NewAuthService(
	ledger *otp.Ledger,
	gateway notify.Gateway,
	userRepo repositories.UserRepository,
	volunteerRepo repositories.VolunteerRepository,
	tokenService TokenService,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		ledger:        ledger,
		gateway:       gateway,
		userRepo:      userRepo,
		volunteerRepo: volunteerRepo,
		tokenService:  tokenService,
		tokenExpiry:   tokenExpiry,
	}
}

// contactKey picks the address matching the channel and validates that
// it is present. The key doubles as the ledger key.
func contactKey(phone, email string, channel notify.Channel) (string, error) {
	switch channel {
	case notify.ChannelEmail:
		if email == "" {
			return "", utils.ErrMissingContact
		}
		return email, nil
	case notify.ChannelSMS:
		if phone == "" {
			return "", utils.ErrMissingContact
		}
		return phone, nil
	}
	return "", utils.ErrInvalidChannel
}

func (s *authService) RequestCode(ctx context.Context, phone, email string, channel notify.Channel) (string, error) {
	key, err := contactKey(phone, email, channel)
	if err != nil {
		return "", err
	}

	code, err := s.ledger.Issue(key)
	if err != nil {
		return "", err
	}

	// Dispatch happens outside the ledger's lock; a slow provider only
	// delays delivery, never verification. A failed send is NOT rolled
	// back: the client retries and a fresh issue replaces the entry.
	if err := s.gateway.SendCode(ctx, channel, key, code); err != nil {
		return "", err
	}

	utils.Logger.Infof("OTP issued for %s delivery", channel)
	return key, nil
}

func (s *authService) VerifyAndLogin(
	ctx context.Context,
	phone, email string,
	channel notify.Channel,
	code string,
	role models.RoleType,
	name string,
) (*AuthResult, error) {
	key, err := contactKey(phone, email, channel)
	if err != nil {
		return nil, err
	}

	switch outcome := s.ledger.Verify(key, code); outcome {
	case otp.OutcomeVerified:
		// fall through to identity resolution
	case otp.OutcomeNoPendingCode:
		return nil, utils.ErrNoPendingCode
	case otp.OutcomeExpired:
		return nil, utils.ErrCodeExpired
	case otp.OutcomeMismatch:
		return nil, utils.ErrCodeMismatch
	case otp.OutcomeAttemptsExhausted:
		return nil, utils.ErrAttemptsExhausted
	default:
		return nil, utils.ErrCodeMismatch
	}

	switch role {
	case models.RoleUser:
		return s.loginUser(ctx, phone, email, channel, name)
	case models.RoleVolunteer:
		return s.loginVolunteer(ctx, phone, email, channel, name)
	}
	return nil, utils.ErrIdentityNotFound
}

func (s *authService) loginUser(ctx context.Context, phone, email string, channel notify.Channel, name string) (*AuthResult, error) {
	var u *models.User
	var err error
	if channel == notify.ChannelEmail {
		u, err = s.userRepo.GetByEmail(ctx, email)
	} else {
		u, err = s.userRepo.GetByPhone(ctx, phone)
	}
	if err != nil {
		return nil, err
	}

	if u == nil {
		// First login for this contact: provision with placeholder
		// profile fields until the user completes setup.
		u = &models.User{
			ID:      uuid.New(),
			Name:    name,
			Phone:   phone,
			Email:   email,
			Address: models.DefaultUserAddress,
		}
		if err := s.userRepo.Create(ctx, u); err != nil {
			return nil, err
		}
		utils.Logger.Infof("Provisioned new user identity %s", u.ID)
	}

	token, err := s.tokenService.GenerateAccessToken(u.ID, models.RoleUser, s.tokenExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token: token,
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  models.RoleUser,
	}, nil
}

func (s *authService) loginVolunteer(ctx context.Context, phone, email string, channel notify.Channel, name string) (*AuthResult, error) {
	var v *models.Volunteer
	var err error
	if channel == notify.ChannelEmail {
		v, err = s.volunteerRepo.GetByEmail(ctx, email)
	} else {
		v, err = s.volunteerRepo.GetByPhone(ctx, phone)
	}
	if err != nil {
		return nil, err
	}

	if v == nil {
		v = &models.Volunteer{
			ID:    uuid.New(),
			Name:  name,
			Phone: phone,
			Email: email,
		}
		if err := s.volunteerRepo.Create(ctx, v); err != nil {
			return nil, err
		}
		utils.Logger.Infof("Provisioned new volunteer identity %s", v.ID)
	}

	token, err := s.tokenService.GenerateAccessToken(v.ID, models.RoleVolunteer, s.tokenExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token: token,
		ID:    v.ID,
		Name:  v.Name,
		Email: v.Email,
		Phone: v.Phone,
		Role:  models.RoleVolunteer,
	}, nil
}
