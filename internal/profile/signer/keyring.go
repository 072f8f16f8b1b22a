// Package signer holds party identities and their Ed25519 owning keys.
//
// A Keyring is both the party directory (who is party X, what is their key)
// and the signing primitive: signatures are compact EdDSA JWTs whose claims
// bind the signing party to a transaction id.
package signer

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	"bizledger/pkg/platform/sentinel"
)

const issuer = "bizledger-keyring"

// TransitionClaims are the claims of an authorization token.
type TransitionClaims struct {
	TxID string `json:"tx"`
	jwt.RegisteredClaims
}

type entry struct {
	party models.Party
	priv  ed25519.PrivateKey
}

// Keyring stores party keys in memory. Safe for concurrent use.
type Keyring struct {
	mu      sync.RWMutex
	parties map[id.PartyID]entry
	now     func() time.Time
}

// Option configures a Keyring.
type Option func(*Keyring)

// WithClock overrides the clock used for token issue times.
func WithClock(now func() time.Time) Option {
	return func(k *Keyring) {
		k.now = now
	}
}

func NewKeyring(opts ...Option) *Keyring {
	k := &Keyring{
		parties: make(map[id.PartyID]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// EncodePublicKey renders an Ed25519 public key as a models.PublicKey.
func EncodePublicKey(pub ed25519.PublicKey) models.PublicKey {
	return models.PublicKey(base64.RawURLEncoding.EncodeToString(pub))
}

// DecodePublicKey parses a models.PublicKey back into an Ed25519 key.
func DecodePublicKey(key models.PublicKey) (ed25519.PublicKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(key))
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("decode public key: want %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// Add registers a party from a 32-byte Ed25519 seed.
func (k *Keyring) Add(partyID id.PartyID, name string, seed []byte) (models.Party, error) {
	if len(seed) != ed25519.SeedSize {
		return models.Party{}, fmt.Errorf("seed for %s: want %d bytes, got %d", name, ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	party := models.Party{
		ID:        partyID,
		Name:      name,
		OwningKey: EncodePublicKey(priv.Public().(ed25519.PublicKey)),
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.parties[partyID]; exists {
		return models.Party{}, fmt.Errorf("party %s: %w", partyID, sentinel.ErrAlreadyUsed)
	}
	k.parties[partyID] = entry{party: party, priv: priv}
	return party, nil
}

// Generate registers a new party with a random key and returns it with the
// seed so callers can persist it.
func (k *Keyring) Generate(name string) (models.Party, []byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return models.Party{}, nil, fmt.Errorf("generate seed: %w", err)
	}
	party, err := k.Add(id.NewPartyID(), name, seed)
	if err != nil {
		return models.Party{}, nil, err
	}
	return party, seed, nil
}

// LoadSeeds registers parties from "uuid:name:hexseed" entries.
func (k *Keyring) LoadSeeds(seeds []string) error {
	for _, raw := range seeds {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return fmt.Errorf("party seed %q: want uuid:name:hexseed", raw)
		}
		partyID, err := id.ParsePartyID(parts[0])
		if err != nil {
			return fmt.Errorf("party seed %q: %w", raw, err)
		}
		seed, err := hex.DecodeString(parts[2])
		if err != nil {
			return fmt.Errorf("party seed %q: decode seed: %w", raw, err)
		}
		if _, err := k.Add(partyID, parts[1], seed); err != nil {
			return err
		}
	}
	return nil
}

// FormatSeed renders a seed entry accepted by LoadSeeds.
func FormatSeed(party models.Party, seed []byte) string {
	return fmt.Sprintf("%s:%s:%s", party.ID, party.Name, hex.EncodeToString(seed))
}

// Party resolves a party by id.
//
// Errors: sentinel.ErrNotFound when the party is unknown.
func (k *Keyring) Party(_ context.Context, partyID id.PartyID) (models.Party, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	e, ok := k.parties[partyID]
	if !ok {
		return models.Party{}, sentinel.ErrNotFound
	}
	return e.party, nil
}

// Sign produces party's authorization over txID.
//
// Errors: sentinel.ErrNotFound when the keyring does not hold party's private
// key, or holds a different key than the one the party claims.
func (k *Keyring) Sign(ctx context.Context, party models.Party, txID string) (models.Signature, error) {
	if err := ctx.Err(); err != nil {
		return models.Signature{}, err
	}

	k.mu.RLock()
	e, ok := k.parties[party.ID]
	k.mu.RUnlock()
	if !ok || e.party.OwningKey != party.OwningKey {
		return models.Signature{}, fmt.Errorf("signing key for party %s: %w", party.ID, sentinel.ErrNotFound)
	}

	now := k.now()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, TransitionClaims{
		TxID: txID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  party.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	})
	token.Header["kid"] = string(party.OwningKey)

	signed, err := token.SignedString(e.priv)
	if err != nil {
		return models.Signature{}, fmt.Errorf("sign transition: %w", err)
	}
	return models.Signature{Party: party.ID, Key: party.OwningKey, Token: signed}, nil
}

// Verify checks that sig is a valid authorization by sig.Key over txID.
// Verification needs only the public key, so any node can run it.
func Verify(sig models.Signature, txID string) error {
	pub, err := DecodePublicKey(sig.Key)
	if err != nil {
		return err
	}
	claims := &TransitionClaims{}
	parsed, err := jwt.ParseWithClaims(sig.Token, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return pub, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("verify signature: invalid token")
	}
	if claims.TxID != txID {
		return fmt.Errorf("verify signature: signed tx %s, want %s", claims.TxID, txID)
	}
	if claims.Subject != sig.Party.String() {
		return fmt.Errorf("verify signature: signed by %s, want %s", claims.Subject, sig.Party)
	}
	return nil
}
