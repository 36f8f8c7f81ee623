package types

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ReportRequest is the body of the report download endpoint.
type ReportRequest struct {
	Score       int      `json:"score" validate:"gte=0,lte=100"`
	Keywords    []string `json:"keywords" validate:"max=50,dive,max=100"`
	Suggestions []string `json:"suggestions" validate:"max=20,dive,max=300"`
}

func (r *ReportRequest) Validate() error {
	return requestValidator().Struct(r)
}

// EmailRequest is the body of the send-email endpoint.
type EmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	ReportID string `json:"report_id,omitempty" validate:"omitempty,uuid"`
}

func (r *EmailRequest) Validate() error {
	return requestValidator().Struct(r)
}

// SkillGapRequest is the body of the suggest-skills endpoint.
type SkillGapRequest struct {
	ResumeText string `json:"resume_text"`
	JobRole    string `json:"job_role" validate:"max=100"`
}

// Validate bounds the role name. An empty role is allowed and yields empty lists.
func (r *SkillGapRequest) Validate() error {
	return requestValidator().Struct(r)
}

// GrowthPathRequest is the body of the growth-path endpoint.
type GrowthPathRequest struct {
	ResumeText string `json:"resume_text"`
}
