package partner

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Kind is the role a partner plays for the farm
type Kind string

const (
	KindClient   Kind = "CLIENT"
	KindEmployee Kind = "EMPLOYEE"
	KindSupplier Kind = "SUPPLIER"
)

// IsValid returns true if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindClient, KindEmployee, KindSupplier:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Partner is a client, employee or supplier referenced by detail lines
type Partner struct {
	shared.BaseAggregateRoot
	Kind        Kind
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	CompanyName string
}

// NewPartner creates a new partner of the given kind
func NewPartner(kind Kind, firstName, lastName, email, phone string) (*Partner, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid partner kind %q", kind))
	}
	p := &Partner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
	}
	if err := p.setContact(firstName, lastName, email, phone); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateContact changes the partner's contact details
func (p *Partner) UpdateContact(firstName, lastName, email, phone string) error {
	if err := p.setContact(firstName, lastName, email, phone); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// SetCompany records the company a supplier or client belongs to
func (p *Partner) SetCompany(name, address string) {
	p.CompanyName = name
	p.Address = address
	p.Touch()
}

// FullName returns first and last name joined
func (p *Partner) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Is reports whether the partner plays role kind
func (p *Partner) Is(kind Kind) bool {
	return p.Kind == kind
}

func (p *Partner) setContact(firstName, lastName, email, phone string) error {
	if strings.TrimSpace(firstName) == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Partner first name cannot be empty")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Partner names cannot exceed 100 characters")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid email %q", email))
		}
	}
	p.FirstName = strings.TrimSpace(firstName)
	p.LastName = strings.TrimSpace(lastName)
	p.Email = strings.ToLower(email)
	p.Phone = phone
	return nil
}

// KindMismatchError is returned when a detail line references a partner in the wrong role
type KindMismatchError struct {
	PartnerID uuid.UUID
	Expected  Kind
	Actual    Kind
}

// Error implements the error interface
func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("partner %s is a %s, expected a %s", e.PartnerID, e.Actual, e.Expected)
}

// Unwrap exposes the error as a DomainError
func (e *KindMismatchError) Unwrap() error {
	return shared.NewDomainError(shared.CodeInvalidInput, e.Error())
}
