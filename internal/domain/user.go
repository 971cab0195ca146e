package domain

import (
	"strings"
	"time"
)

// UserPlan enumerates billing plans.
type UserPlan string

const (
	UserPlanFree         UserPlan = "free"
	UserPlanStarter      UserPlan = "starter"
	UserPlanProfessional UserPlan = "professional"
	UserPlanEnterprise   UserPlan = "enterprise"
)

// UnlimitedQuota marks a plan without a monthly application bound.
const UnlimitedQuota = -1

var planQuotas = map[UserPlan]int{
	UserPlanFree:         10,
	UserPlanStarter:      50,
	UserPlanProfessional: 200,
	UserPlanEnterprise:   UnlimitedQuota,
}

// ParsePlan normalizes a plan name. An empty name resolves to the free plan.
func ParsePlan(name string) (UserPlan, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return UserPlanFree, nil
	}
	plan := UserPlan(name)
	if _, ok := planQuotas[plan]; !ok {
		return "", ErrUnsupportedPlan
	}
	return plan, nil
}

// MonthlyQuota returns how many applications the plan allows per calendar month.
func (p UserPlan) MonthlyQuota() int {
	if q, ok := planQuotas[p]; ok {
		return q
	}
	return planQuotas[UserPlanFree]
}

// User represents an account within the platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Plan         UserPlan  `json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}
