// Package security provides the tiered authorization checks and the guard
// combinators that wrap service operations with them.
package security

import (
	"github.com/yourorg/castingdesk/internal/domain"
)

// CanManageService reports whether the author holds the service-admin tier
func CanManageService(author *domain.User) bool {
	if author == nil {
		return false
	}
	return author.IsAdmin
}

// CanManageCompany reports whether the author holds company-owner tier or
// above for the company. Membership is compared by identifier: owner lists
// carry borrowed references, not owned copies.
func CanManageCompany(author *domain.User, company *domain.Company) bool {
	if author == nil || company == nil {
		return false
	}
	if CanManageService(author) {
		return true
	}
	for _, owner := range company.Owners {
		if owner != nil && owner.ID == author.ID {
			return true
		}
	}
	return false
}

// CanManageStaffLevel reports whether the author holds company-staff tier or
// above for the company
func CanManageStaffLevel(author *domain.User, company *domain.Company) bool {
	if author == nil || company == nil {
		return false
	}
	if CanManageCompany(author, company) {
		return true
	}
	for _, member := range company.Staff {
		if member != nil && member.ID == author.ID {
			return true
		}
	}
	return false
}

func forbidden(message string) error {
	if message == "" {
		message = "forbidden"
	}
	return domain.NewForbidden(message)
}

// Op is a service operation taking one argument value. Operations with
// several inputs carry them in an args struct.
type Op[A, R any] func(args A) (R, error)

// CompanyOp is a service operation whose first argument is the resolved
// company
type CompanyOp[A, R any] func(company *domain.Company, args A) (R, error)

// Admin wraps op so it runs only for service admins. The guard check happens
// strictly before invocation; on failure the operation is never entered.
func Admin[A, R any](op Op[A, R], message string) func(author *domain.User, args A) (R, error) {
	return func(author *domain.User, args A) (R, error) {
		if !CanManageService(author) {
			var zero R
			return zero, forbidden(message)
		}
		return op(args)
	}
}

// Owner wraps op so it runs only for company owners or above. The wrapped
// operation does not receive the company (company-separate flavor).
func Owner[A, R any](op Op[A, R], message string) func(author *domain.User, company *domain.Company, args A) (R, error) {
	return func(author *domain.User, company *domain.Company, args A) (R, error) {
		if company == nil || !CanManageCompany(author, company) {
			var zero R
			return zero, forbidden(message)
		}
		return op(args)
	}
}

// Staff wraps op so it runs only for company staff or above. The wrapped
// operation does not receive the company (company-separate flavor).
func Staff[A, R any](op Op[A, R], message string) func(author *domain.User, company *domain.Company, args A) (R, error) {
	return func(author *domain.User, company *domain.Company, args A) (R, error) {
		if company == nil || !CanManageStaffLevel(author, company) {
			var zero R
			return zero, forbidden(message)
		}
		return op(args)
	}
}

// OwnerWithCompany wraps op so it runs only for company owners or above,
// passing the already-resolved company through as the operation's leading
// argument (company-leading flavor).
func OwnerWithCompany[A, R any](op CompanyOp[A, R], message string) func(author *domain.User, company *domain.Company, args A) (R, error) {
	return func(author *domain.User, company *domain.Company, args A) (R, error) {
		if company == nil || !CanManageCompany(author, company) {
			var zero R
			return zero, forbidden(message)
		}
		return op(company, args)
	}
}

// StaffWithCompany wraps op so it runs only for company staff or above,
// passing the resolved company through (company-leading flavor).
func StaffWithCompany[A, R any](op CompanyOp[A, R], message string) func(author *domain.User, company *domain.Company, args A) (R, error) {
	return func(author *domain.User, company *domain.Company, args A) (R, error) {
		if company == nil || !CanManageStaffLevel(author, company) {
			var zero R
			return zero, forbidden(message)
		}
		return op(company, args)
	}
}

// Self wraps op so it runs only when the author is the target user. This is a
// strict identity check: service admins get no bypass, so an admin cannot
// perform a self-only operation on someone else's behalf.
func Self[A, R any](op Op[A, R], message string) func(author, target *domain.User, args A) (R, error) {
	return func(author, target *domain.User, args A) (R, error) {
		if author == nil || target == nil || author.ID != target.ID {
			var zero R
			return zero, forbidden(message)
		}
		return op(args)
	}
}
