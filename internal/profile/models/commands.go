package models

import id "bizledger/pkg/domain"

// CreateProfileCommand carries the caller-supplied fields of a new profile.
// Owner, status and timestamps are decided by the orchestrator.
type CreateProfileCommand struct {
	MobileNumber       string
	GSTUserName        string
	RegistrationNumber string
	RegistrationStatus string
	LegalBusinessName  string
	PlaceOfBusiness    string
}

// UpdateProfileCommand carries the mutable fields of an existing profile.
type UpdateProfileCommand struct {
	MobileNumber      string
	GSTUserName       string
	LegalBusinessName string
	PlaceOfBusiness   string
	Status            id.ProfileStatus
}
