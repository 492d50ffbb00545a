package composer

import "strings"

// fallbackRule maps utterance keywords to a static response used when
// generation is unavailable. Rules are checked in order and the first
// keyword hit wins, so selection is deterministic.
type fallbackRule struct {
	keywords []string
	response string
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"address"},
		response: "To change your address with the California DMV, complete a Change of Address form (DMV 14). You can submit it online at dmv.ca.gov, by mail, or at a DMV field office. Address changes must be reported within 10 days of moving.",
	},
	{
		keywords: []string{"license", "real id"},
		response: "For driver license services such as renewals, replacements, or a REAL ID, visit dmv.ca.gov or a DMV field office. Renewals can often be completed online. A replacement license requires form DL 44, which must be signed in person.",
	},
	{
		keywords: []string{"register", "registration", "title"},
		response: "Vehicle registration and title services are handled by the California DMV. To register a vehicle you generally need the title, proof of insurance, a smog certificate when required, and payment of registration fees. See dmv.ca.gov/vehicle-registration for details.",
	},
	{
		keywords: []string{"appointment"},
		response: "You can schedule a DMV appointment online at dmv.ca.gov/appointments. Appointments are recommended for in-office services such as REAL ID applications and driving tests.",
	},
	{
		keywords: []string{"ticket"},
		response: "For fix-it tickets, have the violation corrected, obtain proof of correction, and submit it with the dismissal fee by the due date on the citation. For other citations, follow the instructions on the ticket or contact the issuing court.",
	},
	{
		keywords: []string{"smog"},
		response: "Most vehicles in California require a smog check every two years at registration renewal. Checks are performed at licensed smog check stations; see bar.ca.gov to find one near you.",
	},
}

const genericFallback = "I'm sorry, I'm having trouble generating a detailed answer right now. For California government services, including DMV forms, registration, and licensing, please visit dmv.ca.gov or call 1-800-777-0133."

// cannedResponse returns a topic-matched static response for the
// utterance.
func cannedResponse(utterance string) string {
	lowered := strings.ToLower(utterance)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.response
			}
		}
	}
	return genericFallback
}
