package negotiation

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendWritesOneEnvelopePerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.log.jsonl")

	sink, err := NewSink(path, "offer")
	require.NoError(t, err)

	require.NoError(t, sink.Append(OfferRound{
		CallID:       "call-1",
		LoadID:       "L-1001",
		MCNumber:     "123456",
		CarrierOffer: 1400,
		Round:        1,
	}))
	require.NoError(t, sink.Append(OfferRound{
		CallID:       "call-1",
		LoadID:       "L-1001",
		MCNumber:     "123456",
		CarrierOffer: 1350,
		Round:        2,
	}))
	require.NoError(t, sink.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var stored map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &stored))
		lines = append(lines, stored)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "call-1", lines[0]["call_id"])
	assert.Equal(t, 1400.0, lines[0]["carrier_offer"])
	assert.NotEmpty(t, lines[0]["event_id"])
	assert.NotEmpty(t, lines[0]["received_at"])
	assert.NotEqual(t, lines[0]["event_id"], lines[1]["event_id"])
}

func TestReplayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.log.jsonl")

	sink, err := NewSink(path, "offer")
	require.NoError(t, err)
	for round := 1; round <= 3; round++ {
		require.NoError(t, sink.Append(OfferRound{
			CallID:       "call-1",
			LoadID:       "L-1001",
			MCNumber:     "123456",
			CarrierOffer: 1400,
			Round:        round,
		}))
	}
	require.NoError(t, sink.Close())

	var rounds []int
	count, err := Replay(path, func(o OfferRound) {
		rounds = append(rounds, o.Round)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, count)
	assert.Equal(t, []int{1, 2, 3}, rounds)
}

func TestReplayMissingFileIsEmptyHistory(t *testing.T) {
	count, err := Replay(filepath.Join(t.TempDir(), "nope.jsonl"), func(o OfferRound) {
		t.Fatal("callback should not run")
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReplaySkipsUnparseableLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.log.jsonl")
	content := `{"call_id":"call-1","round":1}` + "\n" +
		"not json\n" +
		`{"call_id":"call-2","round":2}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var calls []string
	count, err := Replay(path, func(o OfferRound) {
		calls = append(calls, o.CallID)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"call-1", "call-2"}, calls)
}

func TestOfferRoundValidate(t *testing.T) {
	valid := OfferRound{
		CallID:       "call-1",
		LoadID:       "L-1001",
		MCNumber:     "123456",
		CarrierOffer: 1400,
		Round:        1,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*OfferRound)
	}{
		{"missing call_id", func(o *OfferRound) { o.CallID = "" }},
		{"missing load_id", func(o *OfferRound) { o.LoadID = "" }},
		{"missing mc_number", func(o *OfferRound) { o.MCNumber = "" }},
		{"zero round", func(o *OfferRound) { o.Round = 0 }},
		{"negative offer", func(o *OfferRound) { o.CarrierOffer = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := valid
			tt.mutate(&offer)
			assert.Error(t, offer.Validate())
		})
	}
}

func TestCallSummaryValidate(t *testing.T) {
	assert.NoError(t, CallSummary{CallID: "call-1"}.Validate())
	assert.Error(t, CallSummary{}.Validate())

	bad := -1.0
	assert.Error(t, CallSummary{CallID: "call-1", FinalPrice: &bad}.Validate())
}
