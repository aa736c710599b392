// Package eligibility applies the carrier eligibility rules to a registry
// snapshot. Evaluation is pure: lookup failures never reach this package.
package eligibility

import "fmt"

// Operating is the registry's tri-state authority flag. Anything the
// registry does not positively affirm counts as not allowed.
type Operating int

const (
	OperatingUnknown Operating = iota
	OperatingNo
	OperatingYes
)

// CarrierRecord is one carrier's registry snapshot, as returned by the
// lookup collaborator. OutOfServiceDate is empty when the carrier is not
// out of service.
type CarrierRecord struct {
	MCNumber         string
	DOTNumber        string
	LegalName        string
	DBAName          string
	AllowedToOperate Operating
	OutOfServiceDate string
}

// Verdict is the external verification contract: the decision, its reason,
// and the carrier identity fields passed through for the caller.
type Verdict struct {
	Eligible         bool   `json:"eligible"`
	Reason           string `json:"reason"`
	MCNumber         string `json:"mc_number,omitempty"`
	DOTNumber        string `json:"dot_number,omitempty"`
	LegalName        string `json:"legal_name,omitempty"`
	DBAName          string `json:"dba_name,omitempty"`
	OutOfServiceDate string `json:"out_of_service_date,omitempty"`
}

// Evaluate decides eligibility in fixed precedence order: an out-of-service
// flag wins over the operating authority check, since a carrier can carry
// both conditions at once and out-of-service is the more severe one.
func Evaluate(rec CarrierRecord) Verdict {
	v := Verdict{
		MCNumber:         rec.MCNumber,
		DOTNumber:        rec.DOTNumber,
		LegalName:        rec.LegalName,
		DBAName:          rec.DBAName,
		OutOfServiceDate: rec.OutOfServiceDate,
	}

	switch {
	case rec.OutOfServiceDate != "":
		v.Reason = fmt.Sprintf("Out of service as of %s", rec.OutOfServiceDate)
	case rec.AllowedToOperate != OperatingYes:
		v.Reason = "Not allowed to operate"
	default:
		v.Eligible = true
		v.Reason = "Active: allowed to operate and not out of service"
	}

	return v
}
