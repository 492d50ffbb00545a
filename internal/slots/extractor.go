// Package slots pulls structured form fields out of free-text utterances
// with regex heuristics. Extraction is best effort: absent fields are
// simply omitted, never errors.
package slots

import (
	"regexp"
	"strings"

	"github.com/govflowai/govchat/internal/config"
	"github.com/govflowai/govchat/internal/intent"
)

const addressExpr = `\b\d+\s+[A-Za-z\s,#.-]+(?:Street|St|Ave(?:nue)?|Road|Rd|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Circle|Cir|Way|Place|Pl)\b(?:[,.\s]+(?:Unit|Apt|Suite)\s*\S+)?(?:[,.\s]+[A-Za-z\s]+)?(?:[,.\s]+CA)?(?:[,.\s]+\d{5})?`

var (
	emailPattern   = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern   = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	addressPattern = regexp.MustCompile(`(?i)` + addressExpr)
	licensePattern = regexp.MustCompile(`DL\d{7}`)

	currentAddrPattern = regexp.MustCompile(`(?i)(?:current|old)\s+address[:\s]+` + addressExpr)
	newAddrPattern     = regexp.MustCompile(`(?i)(?:new|mailing)\s+address[:\s]+` + addressExpr)

	vehiclePattern    = regexp.MustCompile(`(?i)(?:(?:make|model|year)[:\s]+)?([A-Za-z0-9\s]+ car|[A-Za-z0-9\s]+ vehicle)`)
	buyerPattern      = regexp.MustCompile(`(?i)buyer'?s?\s+name[:\s]+([A-Za-z\s]+)`)
	currentLicPattern = regexp.MustCompile(`(?i)(?:current\s+)?(?:driver'?s?\s+)?license\s+number[:\s]+([A-Za-z0-9]+)`)
	outOfStatePattern = regexp.MustCompile(`(?i)(?:out-of-state|out of state)\s+license\s+number[:\s]+([A-Za-z0-9]+)`)
	ssnPattern        = regexp.MustCompile(`(?i)(?:social\s+security\s+number|ssn)[:\s]+(\d{3}-\d{2}-\d{4}|\d{9})`)
	proofPattern      = regexp.MustCompile(`(?i)proof\s+of\s+residence[:\s]+([A-Za-z\s]+)`)
	servicePattern    = regexp.MustCompile(`(?i)service\s+type[:\s]+([A-Za-z\s]+)`)
	datePattern       = regexp.MustCompile(`(?i)preferred\s+date[:\s]+(\d{1,2}/\d{1,2}/\d{4})`)
)

// Extractor extracts form field values from utterances. The fallback
// policy decides whether an unlabeled address in an address change
// request fills the new or the current address slot.
type Extractor struct {
	fallback config.AddressFallback
}

// NewExtractor creates an Extractor with the given unlabeled address
// policy. An empty policy defaults to filling the new address.
func NewExtractor(fallback config.AddressFallback) *Extractor {
	if fallback == "" {
		fallback = config.FallbackNew
	}
	return &Extractor{fallback: fallback}
}

// Extract returns the field values found in the utterance for the given
// intent. The map is empty, never nil, when nothing matches. Extraction
// is deterministic and idempotent.
func (e *Extractor) Extract(utterance string, in intent.Intent) map[string]string {
	data := make(map[string]string)

	if m := emailPattern.FindString(utterance); m != "" {
		data["email"] = m
	}
	if m := phonePattern.FindString(utterance); m != "" {
		data["phone"] = m
	}
	if m := licensePattern.FindString(utterance); m != "" {
		data["driver_license"] = m
	}

	e.extractAddresses(utterance, in, data)

	switch in {
	case intent.VehicleRegistration, intent.VehicleTransfer, intent.VehicleTitle:
		if m := vehiclePattern.FindStringSubmatch(utterance); m != nil {
			data["vehicle_info"] = strings.TrimSpace(m[1])
		}
		if in == intent.VehicleTransfer {
			if m := buyerPattern.FindStringSubmatch(utterance); m != nil {
				data["buyer_info"] = strings.TrimSpace(m[1])
			}
		}
	case intent.LicenseRenewal:
		if m := currentLicPattern.FindStringSubmatch(utterance); m != nil {
			data["current_license"] = strings.TrimSpace(m[1])
		}
	case intent.NewResident:
		if m := outOfStatePattern.FindStringSubmatch(utterance); m != nil {
			data["out_of_state_license"] = strings.TrimSpace(m[1])
		}
		if m := ssnPattern.FindStringSubmatch(utterance); m != nil {
			data["ssn"] = strings.TrimSpace(m[1])
		}
	case intent.RealID:
		if m := ssnPattern.FindStringSubmatch(utterance); m != nil {
			data["ssn"] = strings.TrimSpace(m[1])
		}
		if m := proofPattern.FindStringSubmatch(utterance); m != nil {
			data["proof_of_residence"] = strings.TrimSpace(m[1])
		}
	case intent.DMVAppointment:
		if m := servicePattern.FindStringSubmatch(utterance); m != nil {
			data["service_type"] = strings.TrimSpace(m[1])
		}
		if m := datePattern.FindStringSubmatch(utterance); m != nil {
			data["preferred_date"] = strings.TrimSpace(m[1])
		}
	}

	return data
}

// extractAddresses fills address slots. For address changes, labeled
// current/new addresses take priority; an unlabeled address falls back
// to the configured slot. Other intents use a single current_address.
func (e *Extractor) extractAddresses(utterance string, in intent.Intent, data map[string]string) {
	addr := addressPattern.FindString(utterance)
	if addr == "" {
		return
	}

	if in != intent.AddressChange {
		data["current_address"] = addr
		return
	}

	labeled := false
	if m := currentAddrPattern.FindString(utterance); m != "" {
		data["current_address"] = stripLabel(m)
		labeled = true
	}
	if m := newAddrPattern.FindString(utterance); m != "" {
		data["new_address"] = stripLabel(m)
		labeled = true
	}
	if labeled {
		return
	}

	if e.fallback == config.FallbackCurrent {
		data["current_address"] = addr
	} else {
		data["new_address"] = addr
	}
}

// stripLabel drops the "current address:" style prefix from a labeled
// address match.
func stripLabel(m string) string {
	if i := strings.LastIndex(m, ":"); i >= 0 {
		return strings.TrimSpace(m[i+1:])
	}
	// Label separated by whitespace instead of a colon: cut after the
	// word "address".
	lowered := strings.ToLower(m)
	if i := strings.Index(lowered, "address"); i >= 0 {
		return strings.TrimSpace(m[i+len("address"):])
	}
	return strings.TrimSpace(m)
}
