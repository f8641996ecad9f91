package ingest

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// Policy selects how records are split across recipients.
type Policy string

const (
	PolicyEqual  Policy = "equal"
	PolicyRandom Policy = "random"
)

// ParsePolicy maps a request flag to a policy. Only the exact string "equal" selects the equal
// split; anything else, including "", is random.
func ParsePolicy(s string) Policy {
	if s == string(PolicyEqual) {
		return PolicyEqual
	}
	return PolicyRandom
}

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a ChaCha8 generator seeded from crypto/rand.
func NewRand() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// Group is one recipient's share of a partition.
type Group struct {
	RecipientID string
	IDs         []string
}

// Partition splits ids across recipients. Every recipient gets floor(N/K) ids and the first N mod K
// recipients one more, sliced contiguously in recipient order. Under the random policy the ids are
// shuffled with rng first; the input slice is never modified. Groups may be empty when N < K.
func Partition(ids, recipients []string, policy Policy, rng Shuffler) ([]Group, error) {
	k := len(recipients)
	if k == 0 {
		return nil, newError(KindInvalidArgument, "at least one recipient is required")
	}

	order := make([]string, len(ids))
	copy(order, ids)
	if policy != PolicyEqual {
		if rng == nil {
			rng = NewRand()
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	base, rem := len(order)/k, len(order)%k
	groups := make([]Group, k)
	start := 0
	for i, id := range recipients {
		n := base
		if i < rem {
			n++
		}
		g := make([]string, n)
		copy(g, order[start:start+n])
		groups[i] = Group{RecipientID: id, IDs: g}
		start += n
	}
	return groups, nil
}
