// Package vocab implements the vocabulary of a tokenizer: a bidirectional
// token<->id mapping made of an immutable base table plus an append-only
// added-tokens region, and the named special-token slots (unknown, padding,
// classification, separator, ...).
//
// The base table never changes after construction and added ids are issued
// monotonically after the base id range, so an id's meaning never changes
// once issued. Additions take a write lock; lookups take a read lock, so no
// lookup observes a partially applied addition.
package vocab

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/go-tokenizers/api"
)

// Slot names a special-token binding. The names follow the conventional
// keyword names of pretrained tokenizer configurations.
type Slot string

const (
	SlotUnknown    Slot = "unk_token"
	SlotPad        Slot = "pad_token"
	SlotCls        Slot = "cls_token"
	SlotSep        Slot = "sep_token"
	SlotBos        Slot = "bos_token"
	SlotEos        Slot = "eos_token"
	SlotMask       Slot = "mask_token"
	SlotAdditional Slot = "additional_special_tokens"
)

// scalarSlots are the slots bound to exactly one token.
var scalarSlots = map[Slot]bool{
	SlotUnknown: true,
	SlotPad:     true,
	SlotCls:     true,
	SlotSep:     true,
	SlotBos:     true,
	SlotEos:     true,
	SlotMask:    true,
}

// Vocabulary is the id space of a tokenizer: an immutable base table plus a
// growable added table behind one lookup facade. Safe for concurrent use.
type Vocabulary struct {
	mu sync.RWMutex

	base    map[string]int
	baseInv map[int]string

	added    map[string]int
	addedInv map[int]string
	nextID   int

	special    map[string]bool // token content -> treated as special
	slots      map[Slot]string
	additional []string
}

// New creates a Vocabulary over an already-loaded base table. The base table
// is copied; ids for added tokens are issued after the largest base id.
func New(base map[string]int) *Vocabulary {
	v := &Vocabulary{
		base:     make(map[string]int, len(base)),
		baseInv:  make(map[int]string, len(base)),
		added:    make(map[string]int),
		addedInv: make(map[int]string),
		special:  make(map[string]bool),
		slots:    make(map[Slot]string),
	}
	for token, id := range base {
		v.base[token] = id
		v.baseInv[id] = token
		if id >= v.nextID {
			v.nextID = id + 1
		}
	}
	return v
}

// TokenToID resolves a token string to its id. Added tokens take precedence
// over the base table.
func (v *Vocabulary) TokenToID(token string) (int, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if id, ok := v.added[token]; ok {
		return id, true
	}
	id, ok := v.base[token]
	return id, ok
}

// IDToToken resolves an id back to its token string. Ids that were never
// issued fail with api.ErrLookup.
func (v *Vocabulary) IDToToken(id int) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if token, ok := v.addedInv[id]; ok {
		return token, nil
	}
	if token, ok := v.baseInv[id]; ok {
		return token, nil
	}
	return "", errors.Wrapf(api.ErrLookup, "id %d is not in the vocabulary", id)
}

// Size returns the total number of entries, base plus added. It never
// shrinks.
func (v *Vocabulary) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.base) + len(v.added)
}

// BaseSize returns the number of base entries.
func (v *Vocabulary) BaseSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.base)
}

// AddTokens appends tokens to the added region and returns how many were
// actually added. Empty strings, duplicates within the call and tokens
// already present (base or added) are skipped, not re-added.
func (v *Vocabulary) AddTokens(tokens []string) int {
	return v.add(tokens, false)
}

func (v *Vocabulary) add(tokens []string, special bool) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	added := 0
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if _, ok := v.added[token]; ok {
			if special && !v.special[token] {
				v.special[token] = true
			}
			continue
		}
		if _, ok := v.base[token]; ok {
			if special {
				v.special[token] = true
			}
			continue
		}
		id := v.nextID
		v.nextID++
		v.added[token] = id
		v.addedInv[id] = token
		if special {
			v.special[token] = true
		}
		added++
	}
	if added > 0 {
		klog.V(1).Infof("vocabulary grew by %d token(s) to %d entries", added, len(v.base)+len(v.added))
	}
	return added
}

// AddSpecialTokens registers special tokens by slot and returns how many new
// vocabulary entries were created. Keys must be slot names; scalar slots
// take a string value and SlotAdditional takes a []string — any other shape
// fails with api.ErrTypeConsistency. Bound tokens are treated as atomic by
// the pre-tokenizer and are never split by the subword encoder.
func (v *Vocabulary) AddSpecialTokens(tokens map[string]any) (int, error) {
	added := 0
	for key, value := range tokens {
		slot := Slot(key)
		switch {
		case slot == SlotAdditional:
			list, ok := value.([]string)
			if !ok {
				return added, errors.Wrapf(api.ErrTypeConsistency,
					"slot %q requires a []string, got %T", key, value)
			}
			added += v.add(list, true)
			v.mu.Lock()
			v.additional = append(v.additional, list...)
			v.mu.Unlock()
		case scalarSlots[slot]:
			token, ok := value.(string)
			if !ok {
				return added, errors.Wrapf(api.ErrTypeConsistency,
					"slot %q requires a single token string, got %T", key, value)
			}
			added += v.add([]string{token}, true)
			v.mu.Lock()
			v.slots[slot] = token
			v.mu.Unlock()
		default:
			return added, errors.Wrapf(api.ErrConfiguration, "unknown special token slot %q", key)
		}
	}
	return added, nil
}

// SlotToken returns the token bound to a scalar slot, if any.
func (v *Vocabulary) SlotToken(slot Slot) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	token, ok := v.slots[slot]
	return token, ok
}

// SlotID returns the id of the token bound to a scalar slot, if the slot is
// bound and its token is in the vocabulary.
func (v *Vocabulary) SlotID(slot Slot) (int, bool) {
	v.mu.RLock()
	token, ok := v.slots[slot]
	v.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return v.TokenToID(token)
}

// IsSpecial reports whether a token content is registered as special.
func (v *Vocabulary) IsSpecial(token string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.special[token]
}

// SpecialTokens returns every token treated as atomic by the pre-tokenizer:
// the bound scalar slots, the additional special tokens and every token
// registered as special.
func (v *Vocabulary) SpecialTokens() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	seen := make(map[string]bool, len(v.special)+len(v.slots))
	var out []string
	appendToken := func(token string) {
		if token == "" || seen[token] {
			return
		}
		seen[token] = true
		out = append(out, token)
	}
	for _, token := range v.slots {
		appendToken(token)
	}
	for token := range v.special {
		appendToken(token)
	}
	return out
}

// AddedTokens returns every non-base token content, special or not. The
// pre-tokenizer treats these as atomic too.
func (v *Vocabulary) AddedTokens() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, 0, len(v.added))
	for token := range v.added {
		out = append(out, token)
	}
	return out
}
