package models

import "time"

// Role enumerates the actors in the approval chain.
type Role string

const (
	RoleStudent     Role = "student"
	RoleCoordinator Role = "coordinator"
	RoleHOD         Role = "hod"
	RoleRegistrar   Role = "registrar"
	RoleAdmin       Role = "admin"
	RoleSuperAdmin  Role = "superadmin"
)

// User is any account known to the system, student or staff.
type User struct {
	ID             string    `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          string    `db:"email" json:"email"`
	Role           Role      `db:"role" json:"role"`
	DepartmentCode *string   `db:"department_code" json:"department_code,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
