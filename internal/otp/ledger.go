// Package otp holds the in-process ledger of pending one-time codes.
//
// The ledger is intentionally ephemeral: codes are short-lived
// credentials, so losing them on restart is an acceptable degradation.
package otp

import (
	"sync"
	"time"

	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

// Outcome is the result of a Verify call.
type Outcome int

const (
	OutcomeVerified Outcome = iota
	OutcomeNoPendingCode
	OutcomeExpired
	OutcomeMismatch
	OutcomeAttemptsExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVerified:
		return "verified"
	case OutcomeNoPendingCode:
		return "no_pending_code"
	case OutcomeExpired:
		return "expired"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeAttemptsExhausted:
		return "attempts_exhausted"
	}
	return "unknown"
}

type pendingCode struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// Ledger maps a contact key to at most one live pending code. All
// operations take the ledger lock, so an Issue immediately followed by
// a Verify for the same key always observes the freshest entry.
type Ledger struct {
	mu    sync.Mutex
	codes map[string]*pendingCode

	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

const (
	DefaultCodeTTL     = 5 * time.Minute
	DefaultMaxAttempts = 3
)

func NewLedger(ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &Ledger{
		codes:       make(map[string]*pendingCode),
		ttl:         ttl,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
}

// Issue generates a fresh six-digit code for contactKey, replacing any
// prior pending entry for that key. The caller is responsible for
// delivering the returned code; the entry is live regardless of whether
// delivery succeeds, so a slow or failed send can simply be retried.
func (l *Ledger) Issue(contactKey string) (string, error) {
	code, err := utils.GenerateOTPCode()
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.codes[contactKey] = &pendingCode{
		code:      code,
		expiresAt: l.now().Add(l.ttl),
	}
	return code, nil
}

// Verify checks submitted against the pending entry for contactKey.
//
// Side effects follow single-use semantics: a match deletes the entry,
// expiry detection deletes it, and the third failed attempt deletes it
// and reports OutcomeAttemptsExhausted instead of a plain mismatch.
func (l *Ledger) Verify(contactKey, submitted string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.codes[contactKey]
	if !ok {
		return OutcomeNoPendingCode
	}

	if l.now().After(entry.expiresAt) {
		delete(l.codes, contactKey)
		return OutcomeExpired
	}

	if entry.code != submitted {
		entry.attempts++
		if entry.attempts >= l.maxAttempts {
			delete(l.codes, contactKey)
			return OutcomeAttemptsExhausted
		}
		return OutcomeMismatch
	}

	delete(l.codes, contactKey)
	return OutcomeVerified
}

// SweepExpired drops entries whose deadline has passed and returns how
// many were removed. Expired entries are also detected lazily by
// Verify, so the sweep only bounds memory growth.
func (l *Ledger) SweepExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, entry := range l.codes {
		if now.After(entry.expiresAt) {
			delete(l.codes, key)
			removed++
		}
	}
	return removed
}

// Pending reports whether a live entry exists for contactKey.
func (l *Ledger) Pending(contactKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.codes[contactKey]
	return ok && !l.now().After(entry.expiresAt)
}
