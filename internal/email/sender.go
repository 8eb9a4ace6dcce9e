package email

import (
	"context"
	"errors"

	"career-advisor/internal/domain"
)

// Sender envia el reporte de un assessment al usuario.
type Sender interface {
	SendAssessmentReport(ctx context.Context, toEmail, displayName string, result domain.AssessmentResult) error
}

// ErrDisabled se devuelve cuando SMTP no esta configurado.
var ErrDisabled = errors.New("email sender disabled")

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendAssessmentReport(context.Context, string, string, domain.AssessmentResult) error {
	if s.reason == "" {
		return ErrDisabled
	}
	return errors.Join(ErrDisabled, errors.New(s.reason))
}
