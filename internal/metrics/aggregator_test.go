package metrics

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadbroker/backend/internal/negotiation"
)

func offerRound(callID string, round int) negotiation.OfferRound {
	return negotiation.OfferRound{
		CallID:       callID,
		LoadID:       "L-1001",
		MCNumber:     "123456",
		CarrierOffer: 1400,
		Round:        round,
	}
}

func callSummary(callID, outcome, sentiment string) negotiation.CallSummary {
	return negotiation.CallSummary{
		CallID:    callID,
		CarrierMC: "123456",
		LoadID:    "L-1001",
		Outcome:   outcome,
		Sentiment: sentiment,
	}
}

func TestSnapshotEmpty(t *testing.T) {
	agg := NewAggregator()

	snap := agg.Snapshot()

	assert.Equal(t, 0, snap.Totals.Calls)
	assert.Equal(t, 0, snap.Totals.OffersLogged)
	assert.Equal(t, 0.0, snap.Totals.AvgRounds)
	assert.Empty(t, snap.Outcomes)
	assert.Empty(t, snap.Sentiments)
}

func TestAvgRoundsIsGlobalMeanOverAllOffers(t *testing.T) {
	agg := NewAggregator()

	n := 10
	for i := 1; i <= n; i++ {
		agg.RecordOffer(offerRound(fmt.Sprintf("call-%d", i), i))
	}

	snap := agg.Snapshot()
	assert.Equal(t, n, snap.Totals.OffersLogged)
	assert.InDelta(t, 5.5, snap.Totals.AvgRounds, 1e-9) // mean(1..10)
}

func TestAvgRoundsCountsRepeatedRoundsAsIs(t *testing.T) {
	agg := NewAggregator()

	// Two calls, three offers each: rounds 1,2,2 and 1,1,4.
	for _, r := range []int{1, 2, 2} {
		agg.RecordOffer(offerRound("call-a", r))
	}
	for _, r := range []int{1, 1, 4} {
		agg.RecordOffer(offerRound("call-b", r))
	}

	snap := agg.Snapshot()
	assert.Equal(t, 6, snap.Totals.OffersLogged)
	assert.InDelta(t, 11.0/6.0, snap.Totals.AvgRounds, 1e-9)
}

func TestOutcomeAndSentimentBuckets(t *testing.T) {
	agg := NewAggregator()

	agg.RecordSummary(callSummary("c-1", "Accepted", "Positive"))
	agg.RecordSummary(callSummary("c-2", "Accepted", "Neutral"))
	agg.RecordSummary(callSummary("c-3", "Rejected", "Negative"))
	agg.RecordSummary(callSummary("c-4", "Not Eligible", "Negative"))
	agg.RecordSummary(callSummary("c-5", "Callback Requested", "Positive"))

	snap := agg.Snapshot()

	assert.Equal(t, 5, snap.Totals.Calls)
	assert.Equal(t, 2, snap.Totals.Accepted)
	assert.Equal(t, 1, snap.Totals.Rejected)
	assert.Equal(t, 1, snap.Totals.NotEligible)

	assert.Equal(t, map[string]int{
		"Accepted":           2,
		"Rejected":           1,
		"Not Eligible":       1,
		"Callback Requested": 1,
	}, snap.Outcomes)

	assert.Equal(t, map[string]int{
		"Positive": 2,
		"Neutral":  1,
		"Negative": 2,
	}, snap.Sentiments)
}

func TestEmptyLabelsGetDefaultBuckets(t *testing.T) {
	agg := NewAggregator()

	agg.RecordSummary(callSummary("c-1", "", ""))

	snap := agg.Snapshot()
	assert.Equal(t, map[string]int{"Other": 1}, snap.Outcomes)
	assert.Equal(t, map[string]int{"Neutral": 1}, snap.Sentiments)
}

func TestCallsCountsDistinctCallIDs(t *testing.T) {
	agg := NewAggregator()

	agg.RecordSummary(callSummary("c-1", "Accepted", "Positive"))
	agg.RecordSummary(callSummary("c-1", "Accepted", "Positive"))
	agg.RecordSummary(callSummary("c-2", "Rejected", "Negative"))

	snap := agg.Snapshot()
	assert.Equal(t, 2, snap.Totals.Calls)
	assert.Equal(t, 2, snap.Totals.Accepted)
}

func TestConcurrentRecordingLosesNothing(t *testing.T) {
	agg := NewAggregator()

	const workers = 10
	const perWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				agg.RecordOffer(offerRound(fmt.Sprintf("call-%d", w), 2))
				if i%10 == 0 {
					agg.Snapshot()
				}
			}
		}(w)
	}
	wg.Wait()

	snap := agg.Snapshot()
	assert.Equal(t, workers*perWorker, snap.Totals.OffersLogged)
	assert.InDelta(t, 2.0, snap.Totals.AvgRounds, 1e-9)
}

// Replaying a recorded history must produce the same snapshot as recording
// it live: the aggregator's counters and a full re-scan of the log agree.
func TestReplayedHistoryMatchesLiveRecording(t *testing.T) {
	dir := t.TempDir()
	offersPath := filepath.Join(dir, "offers.log.jsonl")
	summariesPath := filepath.Join(dir, "call_summaries.jsonl")

	offersSink, err := negotiation.NewSink(offersPath, "offer")
	require.NoError(t, err)
	summariesSink, err := negotiation.NewSink(summariesPath, "call_summary")
	require.NoError(t, err)

	live := NewAggregator()
	for i := 1; i <= 5; i++ {
		offer := offerRound("call-1", i)
		require.NoError(t, offersSink.Append(offer))
		live.RecordOffer(offer)
	}
	for _, outcome := range []string{"Accepted", "Accepted", "Rejected"} {
		summary := callSummary("c-"+outcome, outcome, "Neutral")
		require.NoError(t, summariesSink.Append(summary))
		live.RecordSummary(summary)
	}
	require.NoError(t, offersSink.Close())
	require.NoError(t, summariesSink.Close())

	replayed := NewAggregator()
	offersSeen, err := negotiation.Replay(offersPath, replayed.RecordOffer)
	require.NoError(t, err)
	summariesSeen, err := negotiation.Replay(summariesPath, replayed.RecordSummary)
	require.NoError(t, err)

	assert.Equal(t, 5, offersSeen)
	assert.Equal(t, 3, summariesSeen)
	assert.Equal(t, live.Snapshot(), replayed.Snapshot())
}
