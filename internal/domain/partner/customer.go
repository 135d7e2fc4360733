package partner

import (
	"regexp"
	"strings"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

var customerCodePattern = regexp.MustCompile(`^[A-Z0-9\-]{3,20}$`)

// Customer is an entry in the tenant's customer directory. Reps visit
// customers and may hand them samples.
type Customer struct {
	shared.TenantAggregateRoot
	FullName string
	Code     string
	Phone    string
	City     string
	IsActive bool
}

// NewCustomer creates an active customer. code may be empty.
func NewCustomer(tenantID uuid.UUID, fullName, code, phone, city string) (*Customer, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code != "" && !customerCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code must be 3-20 characters of A-Z, 0-9 or '-'")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FullName:            fullName,
		Code:                code,
		Phone:               phone,
		City:                city,
		IsActive:            true,
	}, nil
}
