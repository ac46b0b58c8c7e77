package fiscal_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// AMOUNT PARSING
// =============================================================================

func TestParseAmount_Lenient(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000", "1000.00"},
		{"1,000.50", "1000.50"},
		{"  ₱2,500 ", "2500.00"},
		{"PHP 150.75", "150.75"},
		{"abc", "0.00"},   // malformed normalizes to zero, never errors
		{"", "0.00"},
		{"12.3.4", "0.00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, fiscal.ParseAmount(c.in).String(), "input %q", c.in)
	}
}

func TestAmount_Display_GroupsThousands(t *testing.T) {
	assert.Equal(t, "1,234,567.80", fiscal.NewAmount(1234567.8).Display())
	assert.Equal(t, "999.00", fiscal.AmountFromInt(999).Display())
	assert.Equal(t, "1,000.00", fiscal.AmountFromInt(1000).Display())
	assert.Equal(t, "0.00", fiscal.ZeroAmount().Display())
}

func TestAmount_JSONRoundTrip(t *testing.T) {
	type doc struct {
		Deposit fiscal.Amount `json:"deposit"`
	}

	// Numbers, strings, grouped strings, and garbage all decode; garbage is zero.
	for raw, want := range map[string]string{
		`{"deposit":1500.25}`:     "1500.25",
		`{"deposit":"1,500.25"}`:  "1500.25",
		`{"deposit":null}`:        "0.00",
		`{"deposit":"abc"}`:       "0.00",
	} {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(raw), &d))
		assert.Equal(t, want, d.Deposit.String(), "raw %s", raw)
	}

	out, err := json.Marshal(doc{Deposit: fiscal.NewAmount(700)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"deposit":700}`, string(out))
}

// =============================================================================
// PERIOD KEYS
// =============================================================================

func TestPeriodKey_Serialization(t *testing.T) {
	key := fiscal.NewPeriodKey(2024, fiscal.Q3)
	assert.Equal(t, "2024-Q3", key.String())

	parsed, err := fiscal.ParsePeriodKey("2024-Q3")
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestParsePeriodKey_Invalid(t *testing.T) {
	for _, s := range []string{"2024", "2024-Q5", "-Q1", "abcd-Q1", ""} {
		_, err := fiscal.ParsePeriodKey(s)
		assert.ErrorIs(t, err, fiscal.ErrInvalidPeriodKey, "input %q", s)
	}
}

func TestPeriodKey_Next_WrapsYearAtQ4(t *testing.T) {
	// Q1→Q2→Q3→Q4 within the year, then Q4 of Y carries into Q1 of Y+1.
	key := fiscal.NewPeriodKey(2024, fiscal.Q1)
	var chain []string
	for i := 0; i < 5; i++ {
		chain = append(chain, key.String())
		key = key.Next()
	}
	assert.Equal(t, []string{"2024-Q1", "2024-Q2", "2024-Q3", "2024-Q4", "2025-Q1"}, chain)
}

// =============================================================================
// AUDIT RECORDER
// =============================================================================

type captureSink struct {
	events chan fiscal.Event
	fail   bool
}

func (s *captureSink) Record(_ context.Context, e fiscal.Event) error {
	if s.fail {
		return errors.New("sink down")
	}
	s.events <- e
	return nil
}

func TestAsyncRecorder_FillsIDAndNeverFails(t *testing.T) {
	sink := &captureSink{events: make(chan fiscal.Event, 1)}
	rec := fiscal.NewAsyncRecorder(sink, nil)

	err := rec.Record(context.Background(), fiscal.Event{
		Type:  fiscal.EventEntryAdded,
		Actor: "treasurer",
	})
	require.NoError(t, err)
	rec.Wait()

	got := <-sink.events
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.At.IsZero())
	assert.Equal(t, fiscal.EventEntryAdded, got.Type)
}

func TestAsyncRecorder_SinkFailureIsSwallowed(t *testing.T) {
	rec := fiscal.NewAsyncRecorder(&captureSink{fail: true}, nil)
	assert.NoError(t, rec.Record(context.Background(), fiscal.Event{Type: fiscal.EventSave}))
	rec.Wait()
}
