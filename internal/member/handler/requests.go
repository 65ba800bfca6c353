package handler

import "kitchensink/internal/member/models"

// CreateMemberRequest is the POST body. ID is accepted only so that a
// client-supplied id can be rejected explicitly.
type CreateMemberRequest struct {
	ID          *int64  `json:"id"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

// Candidate converts the request into a registration candidate.
func (r *CreateMemberRequest) Candidate() *models.Candidate {
	return &models.Candidate{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

func (r *CreateMemberRequest) email() string {
	if r.Email == nil {
		return ""
	}
	return *r.Email
}
