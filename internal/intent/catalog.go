// Package intent maps user utterances to a fixed catalog of DMV service
// intents using ordered regex rules.
package intent

import "regexp"

// Intent identifies one supported DMV service.
type Intent string

const (
	AddressChange       Intent = "address_change"
	LicenseReplacement  Intent = "license_replacement"
	VehicleRegistration Intent = "vehicle_registration"
	VehicleTransfer     Intent = "vehicle_transfer"
	LicenseRenewal      Intent = "license_renewal"
	VehicleTitle        Intent = "vehicle_title"
	NewResident         Intent = "new_resident"
	RealID              Intent = "real_id"
	DMVAppointment      Intent = "dmv_appointment"
	FixItTicket         Intent = "fix_it_ticket"
	SpeedingTicket      Intent = "speeding_ticket"
	RegistrationExpired Intent = "registration_expired"
	SmogCheck           Intent = "smog_check"
)

// Rule pairs an intent with the pattern that detects it. Rules are
// evaluated in declaration order and the first match wins, so more
// specific intents must be declared before broader ones.
type Rule struct {
	Intent  Intent
	Pattern *regexp.Regexp
}

// DefaultRules is the built-in catalog. Patterns assume the input has
// already been lowercased.
var DefaultRules = []Rule{
	{AddressChange, regexp.MustCompile(`(?:change|update|new)\s+(?:my\s+)?address|(?:i\s+)?moved`)},
	{LicenseReplacement, regexp.MustCompile(`(?:lost|replacement|get\s+a\s+new)\s+(?:my\s+)?(?:driver'?s?\s+)?license`)},
	{VehicleRegistration, regexp.MustCompile(`(?:register|registration)\s+(?:my\s+)?(?:car|vehicle)|how do i register my car`)},
	{VehicleTransfer, regexp.MustCompile(`(?:sold|transfer|ownership)\s+(?:my\s+)?(?:car|vehicle)|how do i transfer ownership of a vehicle`)},
	{LicenseRenewal, regexp.MustCompile(`(?:renew|renewal)\s+(?:my\s+)?(?:driver'?s?\s+)?license`)},
	{VehicleTitle, regexp.MustCompile(`(?:new|replacement|get\s+a\s+new)\s+(?:title|pink\s+slip)\s+(?:for|of)\s+(?:my\s+)?(?:car|vehicle)|my car got totaled`)},
	{NewResident, regexp.MustCompile(`new\s+resident|(?:get|obtain)\s+(?:a\s+)?(?:california|ca)\s+(?:license|id)|i'?m a new resident`)},
	{RealID, regexp.MustCompile(`real\s+id|real\s+identification|how do i get a real id`)},
	{DMVAppointment, regexp.MustCompile(`(?:make|schedule|book)\s+(?:an\s+)?(?:appointment|visit)\s+(?:at\s+)?(?:the\s+)?dmv|i want to make an appointment at the dmv`)},
	{FixItTicket, regexp.MustCompile(`(?:fix-it|fix\s+it)\s+ticket`)},
	{SpeedingTicket, regexp.MustCompile(`speeding\s+ticket`)},
	{RegistrationExpired, regexp.MustCompile(`registration\s+expired`)},
	{SmogCheck, regexp.MustCompile(`smog\s+check`)},
}

// All returns every intent in catalog order.
func All() []Intent {
	intents := make([]Intent, len(DefaultRules))
	for i, r := range DefaultRules {
		intents[i] = r.Intent
	}
	return intents
}
