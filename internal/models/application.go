package models

import (
	"time"

	"github.com/lib/pq"
)

// ApplicationCategory classifies what a student is asking for.
type ApplicationCategory string

const (
	CategoryBonafideCertificate ApplicationCategory = "bonafide_certificate"
	CategoryLeaveRequest        ApplicationCategory = "leave_request"
	CategoryLabAccess           ApplicationCategory = "lab_access"
	CategoryProjectApproval     ApplicationCategory = "project_approval"
	CategoryGeneral             ApplicationCategory = "general"
)

// ApplicationStatus captures the workflow state of an application.
type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusForwarded   ApplicationStatus = "forwarded"
)

// Stage is the role currently responsible for acting on an application.
type Stage string

const (
	StageCoordinator Stage = "coordinator"
	StageHOD         Stage = "hod"
	StageRegistrar   Stage = "registrar"
	StageAdmin       Stage = "admin"
)

// Application is the central entity: a student request moving through the
// approval chain. Status and current_stage always change together; the route
// history only ever grows.
type Application struct {
	ID             string              `db:"id" json:"id"`
	StudentID      string              `db:"student_id" json:"student_id"`
	StudentName    string              `db:"student_name" json:"student_name"`
	StudentEmail   string              `db:"student_email" json:"student_email"`
	DepartmentCode string              `db:"department_code" json:"department_code"`
	Category       ApplicationCategory `db:"category" json:"category"`
	Title          string              `db:"title" json:"title"`
	Description    string              `db:"description" json:"description"`
	Attachments    pq.StringArray      `db:"attachments" json:"attachments"`
	Status         ApplicationStatus   `db:"status" json:"status"`
	CurrentStage   Stage               `db:"current_stage" json:"current_stage"`
	RouteHistory   pq.StringArray      `db:"route_history" json:"route_history"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updated_at"`
}

// ApplicationFilter constrains application listings. All matches are exact;
// empty fields are ignored.
type ApplicationFilter struct {
	StudentID      string
	DepartmentCode string
	Status         string
	Category       string
}
