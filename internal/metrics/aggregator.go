// Package metrics folds the negotiation event stream into running call
// statistics.
package metrics

import (
	"sync"

	"github.com/loadbroker/backend/internal/negotiation"
)

type Totals struct {
	Calls        int     `json:"calls"`
	OffersLogged int     `json:"offers_logged"`
	AvgRounds    float64 `json:"avg_rounds"`
	Accepted     int     `json:"accepted"`
	Rejected     int     `json:"rejected"`
	NotEligible  int     `json:"not_eligible"`
}

// Snapshot is the point-in-time aggregate view. Field names and nesting are
// the external metrics contract.
type Snapshot struct {
	Totals     Totals         `json:"totals"`
	Outcomes   map[string]int `json:"outcomes"`
	Sentiments map[string]int `json:"sentiments"`
}

// Aggregator keeps running counters over every event recorded so far. It is
// an injectable instance, never package state. One mutex serializes all
// updates, so each event lands atomically as a unit and Snapshot never
// observes a half-applied event. avg_rounds is the mean of the round field
// across every offer ever recorded, not a per-call aggregate.
type Aggregator struct {
	mu         sync.Mutex
	offers     int
	roundSum   int
	calls      map[string]struct{}
	outcomes   map[string]int
	sentiments map[string]int
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		calls:      make(map[string]struct{}),
		outcomes:   make(map[string]int),
		sentiments: make(map[string]int),
	}
}

func (a *Aggregator) RecordOffer(o negotiation.OfferRound) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.offers++
	a.roundSum += o.Round
}

func (a *Aggregator) RecordSummary(s negotiation.CallSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls[s.CallID] = struct{}{}
	a.outcomes[outcomeLabel(s.Outcome)]++
	a.sentiments[sentimentLabel(s.Sentiment)]++
}

func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Totals: Totals{
			Calls:        len(a.calls),
			OffersLogged: a.offers,
			Accepted:     a.outcomes["Accepted"],
			Rejected:     a.outcomes["Rejected"],
			NotEligible:  a.outcomes["Not Eligible"],
		},
		Outcomes:   make(map[string]int, len(a.outcomes)),
		Sentiments: make(map[string]int, len(a.sentiments)),
	}

	if a.offers > 0 {
		snap.Totals.AvgRounds = float64(a.roundSum) / float64(a.offers)
	}

	for k, v := range a.outcomes {
		snap.Outcomes[k] = v
	}
	for k, v := range a.sentiments {
		snap.Sentiments[k] = v
	}

	return snap
}

// Outcomes and sentiments are open sets keyed by the literal value received;
// only the empty value gets a default bucket.

func outcomeLabel(outcome string) string {
	if outcome == "" {
		return "Other"
	}
	return outcome
}

func sentimentLabel(sentiment string) string {
	if sentiment == "" {
		return "Neutral"
	}
	return sentiment
}
