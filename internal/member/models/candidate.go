package models

import (
	"unicode"
	"unicode/utf8"

	dErrors "kitchensink/pkg/domain-errors"
	"kitchensink/pkg/email"
)

// Field names as they appear in validation error bodies.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phoneNumber"
)

// Validation messages. Only the first failing rule per field is reported.
const (
	MsgNotNull       = "must not be null"
	MsgNotEmpty      = "must not be empty"
	MsgNameSize      = "size must be between 1 and 25"
	MsgNameDigits    = "Must not contain numbers"
	MsgEmailFormat   = "must be a well-formed email address"
	MsgPhoneSize     = "size must be between 10 and 12"
	MsgPhoneDigits   = "numeric value out of bounds (<12 digits>.<0 digits> expected)"
	MsgEmailConflict = "Email already exists"
)

const (
	nameMinLen  = 1
	nameMaxLen  = 25
	phoneMinLen = 10
	phoneMaxLen = 12
)

// Candidate is a member as submitted for registration. A nil field means the
// caller did not supply it, which is reported differently from an empty one.
type Candidate struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

// NewCandidate builds a Candidate with every field present.
func NewCandidate(name, emailAddr, phone string) *Candidate {
	return &Candidate{Name: &name, Email: &emailAddr, PhoneNumber: &phone}
}

// Validate checks every field and reports all failing fields at once as a
// validation error carrying a field to message map.
func (c *Candidate) Validate() error {
	fields := make(map[string]string)
	if msg := validateName(c.Name); msg != "" {
		fields[FieldName] = msg
	}
	if msg := validateEmail(c.Email); msg != "" {
		fields[FieldEmail] = msg
	}
	if msg := validatePhone(c.PhoneNumber); msg != "" {
		fields[FieldPhoneNumber] = msg
	}
	if len(fields) > 0 {
		return dErrors.WithFields(dErrors.CodeValidation, "member validation failed", fields)
	}
	return nil
}

// ToMember returns the member this candidate becomes once it has an id.
// Call Validate first.
func (c *Candidate) ToMember(id int64) *Member {
	return &Member{
		ID:          id,
		Name:        deref(c.Name),
		Email:       deref(c.Email),
		PhoneNumber: deref(c.PhoneNumber),
	}
}

func validateName(name *string) string {
	if name == nil {
		return MsgNotNull
	}
	if n := utf8.RuneCountInString(*name); n < nameMinLen || n > nameMaxLen {
		return MsgNameSize
	}
	for _, r := range *name {
		if r >= '0' && r <= '9' {
			return MsgNameDigits
		}
	}
	return ""
}

func validateEmail(addr *string) string {
	switch {
	case addr == nil:
		return MsgNotNull
	case *addr == "":
		return MsgNotEmpty
	case !email.IsWellFormed(*addr):
		return MsgEmailFormat
	}
	return ""
}

func validatePhone(phone *string) string {
	if phone == nil {
		return MsgNotNull
	}
	if n := utf8.RuneCountInString(*phone); n < phoneMinLen || n > phoneMaxLen {
		return MsgPhoneSize
	}
	for _, r := range *phone {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return MsgPhoneDigits
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
