package handler

import (
	"strings"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	dErrors "bizledger/pkg/domain-errors"
)

// maxFieldLength bounds every free-text profile field.
const maxFieldLength = 256

// CreateProfileRequest is the HTTP request body for POST /profiles.
//
// Emptiness is not checked here: the transition validator owns those rules
// and reports them with its own messages.
type CreateProfileRequest struct {
	MobileNumber       string `json:"mobile_number"`
	GSTUserName        string `json:"gst_user_name"`
	RegistrationNumber string `json:"registration_number"`
	RegistrationStatus string `json:"registration_status"`
	LegalBusinessName  string `json:"legal_business_name"`
	PlaceOfBusiness    string `json:"place_of_business"`
}

// Validate normalizes the request and enforces size limits.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := []struct {
		name  string
		value *string
	}{
		{"mobile_number", &r.MobileNumber},
		{"gst_user_name", &r.GSTUserName},
		{"registration_number", &r.RegistrationNumber},
		{"registration_status", &r.RegistrationStatus},
		{"legal_business_name", &r.LegalBusinessName},
		{"place_of_business", &r.PlaceOfBusiness},
	}
	for _, f := range fields {
		if err := normalize(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *CreateProfileRequest) Command() models.CreateProfileCommand {
	return models.CreateProfileCommand{
		MobileNumber:       r.MobileNumber,
		GSTUserName:        r.GSTUserName,
		RegistrationNumber: r.RegistrationNumber,
		RegistrationStatus: r.RegistrationStatus,
		LegalBusinessName:  r.LegalBusinessName,
		PlaceOfBusiness:    r.PlaceOfBusiness,
	}
}

// UpdateProfileRequest is the HTTP request body for PUT /profiles/{id}.
// The registration number and registration status cannot be changed and are
// not accepted.
type UpdateProfileRequest struct {
	MobileNumber      string `json:"mobile_number"`
	GSTUserName       string `json:"gst_user_name"`
	LegalBusinessName string `json:"legal_business_name"`
	PlaceOfBusiness   string `json:"place_of_business"`
	Status            string `json:"status"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := []struct {
		name  string
		value *string
	}{
		{"mobile_number", &r.MobileNumber},
		{"gst_user_name", &r.GSTUserName},
		{"legal_business_name", &r.LegalBusinessName},
		{"place_of_business", &r.PlaceOfBusiness},
		{"status", &r.Status},
	}
	for _, f := range fields {
		if err := normalize(f.name, f.value); err != nil {
			return err
		}
	}
	r.Status = strings.ToUpper(r.Status)
	return nil
}

// Command converts the request. An unknown status is passed through so the
// validator rejects it.
func (r *UpdateProfileRequest) Command() models.UpdateProfileCommand {
	return models.UpdateProfileCommand{
		MobileNumber:      r.MobileNumber,
		GSTUserName:       r.GSTUserName,
		LegalBusinessName: r.LegalBusinessName,
		PlaceOfBusiness:   r.PlaceOfBusiness,
		Status:            id.ProfileStatus(r.Status),
	}
}

func normalize(name string, value *string) error {
	*value = strings.TrimSpace(*value)
	if len(*value) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, name+" must be at most 256 characters")
	}
	return nil
}
