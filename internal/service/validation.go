package service

import (
	"regexp"
	"strings"

	"github.com/fjod/go_cinema/internal/domain"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	documentPattern   = regexp.MustCompile(`^[A-Za-z0-9]{8,20}$`)
)

// ValidatePayment checks the card form field by field. A nil return means
// the submission may be handed to the checkout orchestrator.
func ValidatePayment(submission domain.PaymentSubmission) *ValidationError {
	fields := map[string]string{}

	if !cardNumberPattern.MatchString(submission.CardNumber) {
		fields["cardNumber"] = "La tarjeta debe tener 16 dígitos"
	}
	if !expiryPattern.MatchString(submission.ExpirationDate) {
		fields["expirationDate"] = "Formato MM/YY"
	}
	if !cvvPattern.MatchString(submission.CVV) {
		fields["cvv"] = "CVV debe tener entre 3 y 4 dígitos"
	}
	if !emailPattern.MatchString(submission.Email) {
		fields["email"] = "Correo electrónico inválido"
	}
	if len(strings.TrimSpace(submission.Name)) < 3 {
		fields["name"] = "Nombre completo requerido"
	}
	if !documentPattern.MatchString(submission.DocumentNumber) {
		fields["documentNumber"] = "Número de documento inválido"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
