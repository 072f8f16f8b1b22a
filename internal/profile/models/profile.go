package models

import (
	"fmt"
	"time"

	id "bizledger/pkg/domain"
)

// PublicKey is a party's owning key in base64url (no padding) form. Keeping it
// a string makes keys comparable and usable as map keys in signer sets.
type PublicKey string

// Party is a registry participant identified by id and owning key.
type Party struct {
	ID        id.PartyID `json:"id"`
	Name      string     `json:"name"`
	OwningKey PublicKey  `json:"owning_key"`
}

// Ref is the handle of one committed version: the transaction that produced
// it and the output position inside that transaction.
type Ref struct {
	TxID  string `json:"tx_id"`
	Index int    `json:"index"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.TxID, r.Index)
}

func (r Ref) IsZero() bool {
	return r.TxID == ""
}

// Profile is one version of a business profile record.
//
// Invariants for committed versions:
//   - ID, Owner and RegistrationNumber never change across versions
//   - Version 1 is produced by Create; each Update consumes version n and
//     produces version n+1
//   - exactly one version per ID is current
//
// Ref and Version are assigned by the orchestrator when the transition is
// built; callers never supply them.
type Profile struct {
	ID                 id.ProfileID     `json:"id"`
	Owner              Party            `json:"owner"`
	MobileNumber       string           `json:"mobile_number"`
	GSTUserName        string           `json:"gst_user_name"`
	RegistrationNumber string           `json:"registration_number"`
	RegistrationStatus string           `json:"registration_status"`
	LegalBusinessName  string           `json:"legal_business_name"`
	PlaceOfBusiness    string           `json:"place_of_business"`
	Status             id.ProfileStatus `json:"status"`
	LastModified       time.Time        `json:"last_modified"`
	Ref                Ref              `json:"ref"`
	Version            int              `json:"version"`
}

// OwnedBy reports whether party is the profile's owner.
func (p *Profile) OwnedBy(party id.PartyID) bool {
	return p != nil && p.Owner.ID == party
}

// Clone returns an independent copy. Profile holds no reference types, so a
// value copy suffices; the method keeps call sites explicit about snapshots.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Successor builds the proposed next version of p from the mutable fields in
// cmd. Immutable fields and RegistrationStatus are copied from p.
func (p *Profile) Successor(cmd UpdateProfileCommand, now time.Time) Profile {
	next := *p
	next.MobileNumber = cmd.MobileNumber
	next.GSTUserName = cmd.GSTUserName
	next.LegalBusinessName = cmd.LegalBusinessName
	next.PlaceOfBusiness = cmd.PlaceOfBusiness
	next.Status = cmd.Status
	next.LastModified = nextModified(p.LastModified, now)
	next.Ref = Ref{}
	next.Version = p.Version + 1
	return next
}

// nextModified keeps lastModified strictly increasing along a chain even when
// the clock has not advanced (or went backwards) since the previous version.
func nextModified(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
