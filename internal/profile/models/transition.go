package models

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/sha3"

	id "bizledger/pkg/domain"
)

// Kind names the transition being proposed.
type Kind string

const (
	KindCreate Kind = "CREATE"
	KindUpdate Kind = "UPDATE"
)

// SignerSet is the set of keys that authorized a transition.
type SignerSet map[PublicKey]struct{}

func NewSignerSet(keys ...PublicKey) SignerSet {
	s := make(SignerSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s SignerSet) Contains(key PublicKey) bool {
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

// Transition is a proposed state change: the versions it consumes, the
// versions it produces and the keys required to sign it.
type Transition struct {
	Kind    Kind
	Inputs  []Profile
	Outputs []Profile
	Signers SignerSet
}

// NewCreate builds a Create transition for proposed, signed by owner's key.
func NewCreate(proposed Profile) Transition {
	return Transition{
		Kind:    KindCreate,
		Outputs: []Profile{proposed},
		Signers: NewSignerSet(proposed.Owner.OwningKey),
	}
}

// NewUpdate builds an Update transition consuming previous, signed by the
// previous owner's key.
func NewUpdate(previous, proposed Profile) Transition {
	return Transition{
		Kind:    KindUpdate,
		Inputs:  []Profile{previous},
		Outputs: []Profile{proposed},
		Signers: NewSignerSet(previous.Owner.OwningKey),
	}
}

// Consumes returns the refs of every input version.
func (t Transition) Consumes() []Ref {
	refs := make([]Ref, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		refs = append(refs, in.Ref)
	}
	return refs
}

// Output returns the output version of profileID, if t produces one.
func (t Transition) Output(profileID id.ProfileID) (Profile, bool) {
	for _, out := range t.Outputs {
		if out.ID == profileID {
			return out, true
		}
	}
	return Profile{}, false
}

// canonicalProfile is the hashed view of an output. Ref is excluded because it
// is derived from the digest.
type canonicalProfile struct {
	ID                 string `json:"id"`
	OwnerID            string `json:"owner_id"`
	OwnerKey           string `json:"owner_key"`
	MobileNumber       string `json:"mobile_number"`
	GSTUserName        string `json:"gst_user_name"`
	RegistrationNumber string `json:"registration_number"`
	RegistrationStatus string `json:"registration_status"`
	LegalBusinessName  string `json:"legal_business_name"`
	PlaceOfBusiness    string `json:"place_of_business"`
	Status             string `json:"status"`
	LastModified       string `json:"last_modified"`
	Version            int    `json:"version"`
}

type canonicalTransition struct {
	Kind     Kind               `json:"kind"`
	Consumes []Ref              `json:"consumes"`
	Outputs  []canonicalProfile `json:"outputs"`
}

// Digest is the hex SHA3-256 of the transition's canonical content. It serves
// as the transaction id and is what signers sign.
func (t Transition) Digest() string {
	c := canonicalTransition{Kind: t.Kind, Consumes: t.Consumes()}
	for _, out := range t.Outputs {
		c.Outputs = append(c.Outputs, canonicalProfile{
			ID:                 out.ID.String(),
			OwnerID:            out.Owner.ID.String(),
			OwnerKey:           string(out.Owner.OwningKey),
			MobileNumber:       out.MobileNumber,
			GSTUserName:        out.GSTUserName,
			RegistrationNumber: out.RegistrationNumber,
			RegistrationStatus: out.RegistrationStatus,
			LegalBusinessName:  out.LegalBusinessName,
			PlaceOfBusiness:    out.PlaceOfBusiness,
			Status:             string(out.Status),
			LastModified:       out.LastModified.UTC().Format(time.RFC3339Nano),
			Version:            out.Version,
		})
	}
	// Marshal of these plain structs cannot fail.
	b, _ := json.Marshal(c)
	sum := sha3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Seal stamps every output with its Ref under the transition's digest and
// returns the transaction id.
func (t *Transition) Seal() string {
	txID := t.Digest()
	for i := range t.Outputs {
		t.Outputs[i].Ref = Ref{TxID: txID, Index: i}
	}
	return txID
}

// Signature is one party's authorization over a transaction id.
type Signature struct {
	Party id.PartyID
	Key   PublicKey
	Token string
}

// SignedTransition is a sealed transition together with its signatures.
type SignedTransition struct {
	TxID       string
	Transition Transition
	Signatures []Signature
}

// SignedBy reports whether a signature from key is attached.
func (s SignedTransition) SignedBy(key PublicKey) bool {
	for _, sig := range s.Signatures {
		if sig.Key == key {
			return true
		}
	}
	return false
}
