package models

import "time"

// DepartmentType distinguishes teaching departments from administrative offices.
type DepartmentType string

const (
	DepartmentTypeAcademic       DepartmentType = "academic"
	DepartmentTypeAdministrative DepartmentType = "administrative"
)

// Department is a unit applications can be routed through. The short code is
// what other records reference (by convention, not constraint).
type Department struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Code      string         `db:"code" json:"code"`
	Type      DepartmentType `db:"type" json:"type"`
	IsActive  bool           `db:"is_active" json:"is_active"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
