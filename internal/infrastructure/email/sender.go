package email

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
	"go.uber.org/zap"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// Config holds SMTP configuration
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	Recipient     string
	SkipTLSVerify bool
}

// Sender emails the claims office when a manager finalizes a claim
type Sender struct {
	cfg    Config
	logger *zap.Logger
}

// NewSender creates a new email sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// NotifyDecision sends the decision email. Best effort; the caller logs
// and swallows any error.
func (s *Sender) NotifyDecision(ctx context.Context, claim *entity.Claim, decided workflow.Status) error {
	if s.cfg.Host == "" || s.cfg.Recipient == "" {
		return nil
	}

	verdict := "rejected"
	if decided == workflow.StatusManagerApproved {
		verdict = "approved"
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.Recipient)
	m.SetHeader("Subject", fmt.Sprintf("Claim #%d %s - %s %d/%02d",
		claim.ID, verdict, claim.LecturerName, claim.Year, claim.Month))
	m.SetBody("text/plain", fmt.Sprintf(
		"Claim #%d (%s, module %s, period %d/%02d) was %s.\nTotal amount: %d.\n",
		claim.ID, claim.LecturerName, claim.ModuleCode, claim.Year, claim.Month,
		verdict, claim.TotalAmount()))

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.SkipTLSVerify,
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send decision mail: %w", err)
	}

	s.logger.Info("Decision notification sent",
		zap.Int64("claim_id", claim.ID),
		zap.String("decision", verdict))
	return nil
}

// Verify interface compliance
var _ port.DecisionNotifier = (*Sender)(nil)
