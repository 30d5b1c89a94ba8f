package repository

import (
	"strings"

	"trademind/internal/domain"
)

// RolePolicy decides the role and starting status of a newly created
// profile.
type RolePolicy func(email string) (domain.UserRole, domain.UserStatus)

// EmailContainsAdmin grants ADMIN to any email containing "admin". It exists
// for development setups and is rejected by config in production.
func EmailContainsAdmin(email string) (domain.UserRole, domain.UserStatus) {
	if strings.Contains(strings.ToLower(email), "admin") {
		return domain.RoleAdmin, domain.StatusActive
	}
	return domain.RoleUser, domain.StatusPending
}

// AdminEmailList grants ADMIN only to the listed addresses.
func AdminEmailList(emails []string) RolePolicy {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			set[e] = struct{}{}
		}
	}
	return func(email string) (domain.UserRole, domain.UserStatus) {
		if _, ok := set[normalizeEmail(email)]; ok {
			return domain.RoleAdmin, domain.StatusActive
		}
		return domain.RoleUser, domain.StatusPending
	}
}

// AnyOf returns the first policy result that grants ADMIN, else a regular
// pending user.
func AnyOf(policies ...RolePolicy) RolePolicy {
	return func(email string) (domain.UserRole, domain.UserStatus) {
		for _, p := range policies {
			if role, status := p(email); role == domain.RoleAdmin {
				return role, status
			}
		}
		return domain.RoleUser, domain.StatusPending
	}
}
