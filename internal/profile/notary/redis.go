package notary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bizledger/internal/profile/models"
	"bizledger/pkg/platform/sentinel"
)

// consumeScript marks KEYS[1..n-1] as consumed by ARGV[1] unless one of them
// is already held by a different transaction, and stores the transaction
// body ARGV[2] under KEYS[n]. Returns 0 on success or the 1-based index of
// the first conflicting key.
var consumeScript = redis.NewScript(`
local inputs = #KEYS - 1
for i = 1, inputs do
	local holder = redis.call('GET', KEYS[i])
	if holder and holder ~= ARGV[1] then
		return i
	end
end
for i = 1, inputs do
	redis.call('SET', KEYS[i], ARGV[1])
end
redis.call('SET', KEYS[#KEYS], ARGV[2])
return 0
`)

// consumerScript resolves the transaction holding KEYS[1] and returns its
// body, stored under ARGV[1] .. tx id.
var consumerScript = redis.NewScript(`
local tx = redis.call('GET', KEYS[1])
if not tx then
	return false
end
local body = redis.call('GET', ARGV[1] .. tx)
if not body then
	return false
end
return body
`)

// Redis is a notary shared by every replica through one Redis instance.
// Atomicity comes from running the check-and-set as a single script.
type Redis struct {
	client    redis.Scripter
	keyPrefix string
}

func NewRedis(client redis.Scripter, keyPrefix string) *Redis {
	return &Redis{client: client, keyPrefix: keyPrefix}
}

func (n *Redis) key(ref models.Ref) string {
	return n.keyPrefix + ref.String()
}

func (n *Redis) txPrefix() string {
	return n.keyPrefix + "tx:"
}

// Commit records st's inputs as consumed by st.TxID.
//
// Errors: sentinel.ErrConflict when an input was consumed by another
// transaction; sentinel.ErrUnavailable when Redis cannot be reached.
func (n *Redis) Commit(ctx context.Context, st models.SignedTransition) error {
	if err := checkSignatures(st); err != nil {
		return err
	}

	refs := st.Transition.Consumes()
	if len(refs) == 0 {
		return nil
	}
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("notary commit: encode %s: %w", st.TxID, err)
	}
	keys := make([]string, 0, len(refs)+1)
	for _, ref := range refs {
		keys = append(keys, n.key(ref))
	}
	keys = append(keys, n.txPrefix()+st.TxID)

	idx, err := consumeScript.Run(ctx, n.client, keys, st.TxID, body).Int()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("notary commit: %v: %w", err, sentinel.ErrUnavailable)
	}
	if idx != 0 {
		return fmt.Errorf("version %s already consumed: %w", refs[idx-1], sentinel.ErrConflict)
	}
	return nil
}

// Consumer returns the committed transaction that consumed ref.
//
// Errors: sentinel.ErrNotFound when ref is unconsumed; sentinel.ErrUnavailable
// when Redis cannot be reached; sentinel.ErrInvalidState when the stored body
// does not hash to its tx id.
func (n *Redis) Consumer(ctx context.Context, ref models.Ref) (models.SignedTransition, error) {
	body, err := consumerScript.Run(ctx, n.client, []string{n.key(ref)}, n.txPrefix()).Text()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			return models.SignedTransition{}, fmt.Errorf("version %s: %w", ref, sentinel.ErrNotFound)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return models.SignedTransition{}, err
		default:
			return models.SignedTransition{}, fmt.Errorf("notary lookup: %v: %w", err, sentinel.ErrUnavailable)
		}
	}

	var st models.SignedTransition
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		return models.SignedTransition{}, fmt.Errorf("notary lookup: decode %s: %v: %w", ref, err, sentinel.ErrInvalidState)
	}
	if st.TxID != st.Transition.Digest() {
		return models.SignedTransition{}, fmt.Errorf("notary lookup: %s does not match its content: %w", st.TxID, sentinel.ErrInvalidState)
	}
	return st, nil
}
