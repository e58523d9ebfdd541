package otp

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLedger(DefaultCodeTTL)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestIssueThenVerifyConsumesEntry(t *testing.T) {
	l, _ := newTestLedger(t)

	code, err := l.Issue("user@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	assert.Equal(t, OutcomeVerified, l.Verify("user@example.com", code))

	// Single use: the same code must not verify twice.
	assert.Equal(t, OutcomeNoPendingCode, l.Verify("user@example.com", code))
}

func TestVerifyWithoutIssue(t *testing.T) {
	l, _ := newTestLedger(t)
	assert.Equal(t, OutcomeNoPendingCode, l.Verify("+15550001111", "123456"))
}

func TestExpiredCodeRejectedEvenWhenCorrect(t *testing.T) {
	l, now := newTestLedger(t)

	code, err := l.Issue("user@example.com")
	require.NoError(t, err)

	*now = now.Add(DefaultCodeTTL + time.Second)

	assert.Equal(t, OutcomeExpired, l.Verify("user@example.com", code))
	// Expiry detection deletes the entry.
	assert.Equal(t, OutcomeNoPendingCode, l.Verify("user@example.com", code))
}

func TestVerifyJustBeforeExpiry(t *testing.T) {
	l, now := newTestLedger(t)

	code, err := l.Issue("user@example.com")
	require.NoError(t, err)

	*now = now.Add(DefaultCodeTTL)

	assert.Equal(t, OutcomeVerified, l.Verify("user@example.com", code))
}

func TestThreeStrikesExhaustsEntry(t *testing.T) {
	l, _ := newTestLedger(t)

	code, err := l.Issue("+15550001111")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.Equal(t, OutcomeMismatch, l.Verify("+15550001111", wrong))
	assert.Equal(t, OutcomeMismatch, l.Verify("+15550001111", wrong))
	assert.Equal(t, OutcomeAttemptsExhausted, l.Verify("+15550001111", wrong))

	// Entry gone; even the correct code no longer verifies.
	assert.Equal(t, OutcomeNoPendingCode, l.Verify("+15550001111", code))
}

func TestMismatchDoesNotConsumeEntry(t *testing.T) {
	l, _ := newTestLedger(t)

	code, err := l.Issue("user@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.Equal(t, OutcomeMismatch, l.Verify("user@example.com", wrong))
	assert.Equal(t, OutcomeVerified, l.Verify("user@example.com", code))
}

func TestReissueReplacesPriorCode(t *testing.T) {
	l, _ := newTestLedger(t)

	first, err := l.Issue("user@example.com")
	require.NoError(t, err)
	second, err := l.Issue("user@example.com")
	require.NoError(t, err)

	if first != second {
		// The stale code must never verify once replaced.
		assert.Equal(t, OutcomeMismatch, l.Verify("user@example.com", first))
	}
	assert.Equal(t, OutcomeVerified, l.Verify("user@example.com", second))
}

func TestSweepExpired(t *testing.T) {
	l, now := newTestLedger(t)

	_, err := l.Issue("a@example.com")
	require.NoError(t, err)
	_, err = l.Issue("b@example.com")
	require.NoError(t, err)

	*now = now.Add(DefaultCodeTTL + time.Minute)
	fresh, err := l.Issue("c@example.com")
	require.NoError(t, err)

	assert.Equal(t, 2, l.SweepExpired())
	assert.False(t, l.Pending("a@example.com"))
	assert.True(t, l.Pending("c@example.com"))
	assert.Equal(t, OutcomeVerified, l.Verify("c@example.com", fresh))
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLedger(t)

	codeA, err := l.Issue("a@example.com")
	require.NoError(t, err)
	codeB, err := l.Issue("+15550001111")
	require.NoError(t, err)

	assert.Equal(t, OutcomeVerified, l.Verify("a@example.com", codeA))
	assert.Equal(t, OutcomeVerified, l.Verify("+15550001111", codeB))
}

func TestConcurrentIssueVerifySameKey(t *testing.T) {
	l := NewLedger(DefaultCodeTTL)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := l.Issue("contended@example.com")
			if err != nil {
				t.Error(err)
				return
			}
			// Either this goroutine's code is still current and
			// verification consumes it, or another Issue replaced it
			// and we see a mismatch/no-pending result. Never a panic,
			// never a stale code accepted after replacement.
			l.Verify("contended@example.com", code)
		}()
	}
	wg.Wait()
}

func TestCodesAreSixDigitNumeric(t *testing.T) {
	l, _ := newTestLedger(t)
	for i := 0; i < 100; i++ {
		code, err := l.Issue("user@example.com")
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
		require.GreaterOrEqual(t, code, "100000")
	}
}
