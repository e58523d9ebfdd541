package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

// Channel names a delivery route for one-time codes.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Gateway delivers a one-time code to a contact address. Success or
// failure is binary; the auth service decides what a failure means for
// the already-issued ledger entry.
type Gateway interface {
	SendCode(ctx context.Context, channel Channel, address, code string) error
}

// Config carries the provider credentials and sender identities.
type Config struct {
	OrganizationName string
	SendGridAPIKey   string
	SendGridFrom     string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	SandboxMode      bool
}

type providerGateway struct {
	cfg            Config
	sendgridClient *sendgrid.Client
	twilioClient   *twilio.RestClient
}

// NewGateway builds a Gateway backed by SendGrid for email and Twilio
// for SMS.
func NewGateway(cfg Config) Gateway {
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &providerGateway{
		cfg:            cfg,
		sendgridClient: sgClient,
		twilioClient:   twClient,
	}
}

func (g *providerGateway) SendCode(ctx context.Context, channel Channel, address, code string) error {
	switch channel {
	case ChannelEmail:
		return g.sendEmail(address, code)
	case ChannelSMS:
		return g.sendSMS(address, code)
	}
	return utils.ErrInvalidChannel
}

func (g *providerGateway) sendEmail(address, code string) error {
	from := mail.NewEmail(g.cfg.OrganizationName, g.cfg.SendGridFrom)
	to := mail.NewEmail("", address)
	subject := g.cfg.OrganizationName + " - Your OTP Verification Code"
	plainTextContent := fmt.Sprintf("Your OTP for %s login is %s. It expires in 5 minutes.", g.cfg.OrganizationName, code)
	htmlContent := fmt.Sprintf(otpEmailHTML, g.cfg.OrganizationName, code, g.cfg.OrganizationName)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	if g.cfg.SandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	_, sendErr := g.sendgridClient.Send(message)
	if sendErr != nil {
		utils.Logger.WithError(sendErr).Errorf("Failed to send OTP email to %s via SendGrid", address)
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	return nil
}

func (g *providerGateway) sendSMS(address, code string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(address)
	params.SetFrom(g.cfg.TwilioFrom)
	params.SetBody(fmt.Sprintf("Your OTP for %s is: %s", g.cfg.OrganizationName, code))

	_, sendErr := g.twilioClient.Api.CreateMessage(params)
	if sendErr != nil {
		utils.Logger.WithError(sendErr).Errorf("Failed to send OTP SMS to %s via Twilio", address)
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	return nil
}
