package handler

import (
	"time"

	"bizledger/internal/profile/models"
)

// ProfileResponse is the HTTP form of one profile version.
type ProfileResponse struct {
	ID                 string        `json:"id"`
	Owner              OwnerResponse `json:"owner"`
	MobileNumber       string        `json:"mobile_number"`
	GSTUserName        string        `json:"gst_user_name"`
	RegistrationNumber string        `json:"registration_number"`
	RegistrationStatus string        `json:"registration_status"`
	LegalBusinessName  string        `json:"legal_business_name"`
	PlaceOfBusiness    string        `json:"place_of_business"`
	Status             string        `json:"status"`
	LastModified       time.Time     `json:"last_modified"`
	Version            int           `json:"version"`
	Ref                string        `json:"ref"`
}

type OwnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

func toProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                 p.ID.String(),
		Owner:              OwnerResponse{ID: p.Owner.ID.String(), Name: p.Owner.Name},
		MobileNumber:       p.MobileNumber,
		GSTUserName:        p.GSTUserName,
		RegistrationNumber: p.RegistrationNumber,
		RegistrationStatus: p.RegistrationStatus,
		LegalBusinessName:  p.LegalBusinessName,
		PlaceOfBusiness:    p.PlaceOfBusiness,
		Status:             string(p.Status),
		LastModified:       p.LastModified,
		Version:            p.Version,
		Ref:                p.Ref.String(),
	}
}

func toListResponse(profiles []*models.Profile) ListResponse {
	resp := ListResponse{Profiles: make([]ProfileResponse, 0, len(profiles))}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(p))
	}
	return resp
}
