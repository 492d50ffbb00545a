// Package forms defines the form schema catalog and validates form
// submissions against it.
package forms

import (
	"fmt"

	"github.com/govflowai/govchat/internal/intent"
)

// Schema describes the form tied to an intent. Intents with an empty
// field list are informational and have no form to fill out.
type Schema struct {
	Intent         intent.Intent `json:"form_type"`
	Name           string        `json:"form_name"`
	RequiredFields []string      `json:"required_fields"`
}

// HasForm reports whether the intent collects any fields.
func (s Schema) HasForm() bool {
	return len(s.RequiredFields) > 0
}

// addressParts are the sub-fields a nested address object must carry.
// County stays optional.
var addressParts = []string{"street", "city", "state", "zip"}

var catalog = []Schema{
	{intent.AddressChange, "Change of Address Form",
		[]string{"full_name", "date_of_birth", "driver_license", "current_address", "new_address", "email", "phone"}},
	{intent.LicenseReplacement, "Driver License Replacement Form",
		[]string{"full_name", "date_of_birth", "ssn", "current_address", "email", "phone"}},
	{intent.VehicleRegistration, "Vehicle Registration Form",
		[]string{"full_name", "date_of_birth", "driver_license", "vehicle_info", "current_address", "email", "phone"}},
	{intent.VehicleTransfer, "Vehicle Transfer Form",
		[]string{"full_name", "date_of_birth", "driver_license", "vehicle_info", "buyer_info", "current_address", "email", "phone"}},
	{intent.LicenseRenewal, "Driver License Renewal Form",
		[]string{"full_name", "date_of_birth", "current_license", "current_address", "email", "phone"}},
	{intent.VehicleTitle, "Vehicle Title Replacement Form",
		[]string{"full_name", "date_of_birth", "driver_license", "vehicle_info", "current_address", "email", "phone"}},
	{intent.NewResident, "New Resident License Application",
		[]string{"full_name", "date_of_birth", "out_of_state_license", "ssn", "current_address", "email", "phone"}},
	{intent.RealID, "REAL ID Application",
		[]string{"full_name", "date_of_birth", "ssn", "current_address", "proof_of_residence", "email", "phone"}},
	{intent.DMVAppointment, "DMV Appointment Request",
		[]string{"full_name", "date_of_birth", "driver_license", "service_type", "preferred_date", "email", "phone"}},
	{intent.FixItTicket, "Fix-It Ticket Information", nil},
	{intent.SpeedingTicket, "Speeding Ticket Information", nil},
	{intent.RegistrationExpired, "Expired Registration Information", nil},
	{intent.SmogCheck, "Smog Check Information", nil},
}

// Registry resolves intents to form schemas and validates submissions.
type Registry struct {
	byIntent map[intent.Intent]Schema
}

// NewRegistry returns a Registry over the built-in catalog.
func NewRegistry() *Registry {
	byIntent := make(map[intent.Intent]Schema, len(catalog))
	for _, s := range catalog {
		byIntent[s.Intent] = s
	}
	return &Registry{byIntent: byIntent}
}

// SchemaFor returns the schema for the given intent. The second return
// is false for unknown intents.
func (r *Registry) SchemaFor(in intent.Intent) (Schema, bool) {
	s, ok := r.byIntent[in]
	return s, ok
}

// Result reports the outcome of validating a submission.
type Result struct {
	Accepted      bool
	MissingFields []string
}

// Validate checks a submission against the intent's schema. Missing
// fields are reported in schema order; nested address fields report
// paths like "new_address.zip". Informational intents always accept.
// Unknown intents are an error.
func (r *Registry) Validate(in intent.Intent, data map[string]any) (Result, error) {
	schema, ok := r.byIntent[in]
	if !ok {
		return Result{}, fmt.Errorf("unknown form type %q", in)
	}
	if !schema.HasForm() {
		return Result{Accepted: true}, nil
	}

	var missing []string
	for _, field := range schema.RequiredFields {
		value, present := data[field]
		if !present || isEmpty(value) {
			missing = append(missing, field)
			continue
		}
		if field == "current_address" || field == "new_address" {
			missing = append(missing, missingAddressParts(field, value)...)
		}
	}

	return Result{Accepted: len(missing) == 0, MissingFields: missing}, nil
}

// missingAddressParts checks the required sub-fields of a nested address
// object. A non-object address value (a plain string) is accepted as-is.
func missingAddressParts(field string, value any) []string {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	var missing []string
	for _, part := range addressParts {
		if v, present := obj[part]; !present || isEmpty(v) {
			missing = append(missing, field+"."+part)
		}
	}
	return missing
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
