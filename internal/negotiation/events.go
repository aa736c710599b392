// Package negotiation defines the offer-round and call-summary events
// recorded during a carrier call, and the append-only log they land in.
package negotiation

import "github.com/loadbroker/backend/pkg/apperrors"

// OfferRound is one offer/counter-offer exchange. Rounds are append-only:
// repeated round numbers for the same call are recorded as-is.
type OfferRound struct {
	CallID       string   `json:"call_id"`
	LoadID       string   `json:"load_id"`
	MCNumber     string   `json:"mc_number"`
	CarrierOffer float64  `json:"carrier_offer"`
	Round        int      `json:"round"`
	BrokerOffer  *float64 `json:"broker_offer,omitempty"`
	Accepted     *bool    `json:"accepted,omitempty"`
}

func (o OfferRound) Validate() error {
	if o.CallID == "" {
		return apperrors.InvalidInput("call_id is required")
	}
	if o.LoadID == "" {
		return apperrors.InvalidInput("load_id is required")
	}
	if o.MCNumber == "" {
		return apperrors.InvalidInput("mc_number is required")
	}
	if o.Round < 1 {
		return apperrors.InvalidInput("round must be a positive integer")
	}
	if o.CarrierOffer < 0 {
		return apperrors.InvalidInput("carrier_offer must not be negative")
	}
	return nil
}

// CallSummary closes out one negotiation call. Outcome and sentiment are
// open string sets: unseen labels are carried through, not rejected.
type CallSummary struct {
	CallID        string    `json:"call_id"`
	CarrierMC     string    `json:"carrier_mc,omitempty"`
	LoadID        string    `json:"load_id,omitempty"`
	FinalPrice    *float64  `json:"final_price,omitempty"`
	Outcome       string    `json:"outcome,omitempty"`
	Sentiment     string    `json:"sentiment,omitempty"`
	OfferHistory  []float64 `json:"offer_history,omitempty"`
	TranscriptURL string    `json:"transcript_url,omitempty"`
}

func (s CallSummary) Validate() error {
	if s.CallID == "" {
		return apperrors.InvalidInput("call_id is required")
	}
	if s.FinalPrice != nil && *s.FinalPrice < 0 {
		return apperrors.InvalidInput("final_price must not be negative")
	}
	return nil
}
