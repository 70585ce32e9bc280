package labform

import (
	"fmt"
	"strings"
)

// Field identifies one slot of a lab request form.
type Field string

const (
	FieldCompanyName           Field = "company_name"
	FieldPrimaryContactName    Field = "primary_contact_name"
	FieldPrimaryContactEmail   Field = "primary_contact_email"
	FieldSecondaryContactName  Field = "secondary_contact_name"
	FieldSecondaryContactEmail Field = "secondary_contact_email"
	FieldSponsorEmail          Field = "sponsor_email"
	FieldProjectName           Field = "project_name"
	FieldDesiredStartDate      Field = "desired_start_date"
	FieldLeaseDuration         Field = "lease_duration"
	FieldTimezone              Field = "timezone"
	FieldOpenShiftVersion      Field = "openshift_version"
	FieldVirtualization        Field = "virtualization"
	FieldClusterRequirements   Field = "cluster_requirements"
	FieldApplicationType       Field = "application_type"
	FieldRequestType           Field = "request_type"
	FieldClusterSize           Field = "cluster_size"
	FieldCloudProvider         Field = "cloud_provider"
	FieldDescription           Field = "description"
	FieldScopeOfWork           Field = "scope_of_work"
	FieldNotes                 Field = "notes"

	// System fields are stamped at submission time, never collected.
	FieldTimestamp       Field = "timestamp"
	FieldRequestEvalDate Field = "request_eval_date"
)

func (f Field) String() string {
	return string(f)
}

// Kind selects the predicate used for a field.
type Kind int

const (
	KindPassThrough Kind = iota
	KindEmail
	KindVersion
	KindTimezone
	KindChoice
	KindDate
	KindBoolean
	KindRequiredString
	KindOptionalString
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindVersion:
		return "version"
	case KindTimezone:
		return "timezone"
	case KindChoice:
		return "choice"
	case KindDate:
		return "date"
	case KindBoolean:
		return "boolean"
	case KindRequiredString:
		return "required_string"
	case KindOptionalString:
		return "optional_string"
	default:
		return "pass_through"
	}
}

var (
	AllowedLeaseDurations   = []string{"1d", "2d", "1w", "2w", "1m"}
	AllowedApplicationTypes = []string{"workload", "infrastructure"}
	AllowedRequestTypes     = []string{"general", "engineering", "rosa", "nvidia", "virtualization", "ai"}
	AllowedClusterSizes     = []string{"small", "medium", "large", "xl"}
	AllowedCloudProviders   = []string{"aws", "gcp", "azure", "ibm"}
)

// FieldSpec describes how a field is validated and whether it must be present.
type FieldSpec struct {
	Name     Field
	Label    string
	Kind     Kind
	Required bool
	System   bool
	Allowed  []string
}

var formFields = []FieldSpec{
	{Name: FieldCompanyName, Label: "Company Name", Kind: KindRequiredString, Required: true},
	{Name: FieldPrimaryContactName, Label: "Primary Contact Name", Kind: KindRequiredString, Required: true},
	{Name: FieldPrimaryContactEmail, Label: "Primary Contact Email", Kind: KindEmail, Required: true},
	{Name: FieldSecondaryContactName, Label: "Secondary Contact Name", Kind: KindOptionalString},
	{Name: FieldSecondaryContactEmail, Label: "Secondary Contact Email", Kind: KindEmail},
	{Name: FieldSponsorEmail, Label: "Sponsor Email", Kind: KindEmail, Required: true},
	{Name: FieldProjectName, Label: "Project Name", Kind: KindRequiredString, Required: true},
	{Name: FieldDesiredStartDate, Label: "Desired Start Date", Kind: KindDate, Required: true},
	{Name: FieldLeaseDuration, Label: "Lease duration", Kind: KindChoice, Required: true, Allowed: AllowedLeaseDurations},
	{Name: FieldTimezone, Label: "Timezone", Kind: KindTimezone, Required: true},
	{Name: FieldOpenShiftVersion, Label: "OpenShift Version", Kind: KindVersion, Required: true},
	{Name: FieldVirtualization, Label: "Virtualization", Kind: KindBoolean},
	{Name: FieldClusterRequirements, Label: "Cluster Requirements", Kind: KindOptionalString},
	{Name: FieldApplicationType, Label: "Application type", Kind: KindChoice, Required: true, Allowed: AllowedApplicationTypes},
	{Name: FieldRequestType, Label: "Request type", Kind: KindChoice, Required: true, Allowed: AllowedRequestTypes},
	{Name: FieldClusterSize, Label: "Cluster size", Kind: KindChoice, Required: true, Allowed: AllowedClusterSizes},
	{Name: FieldCloudProvider, Label: "Cloud provider", Kind: KindChoice, Required: true, Allowed: AllowedCloudProviders},
	{Name: FieldDescription, Label: "Description", Kind: KindRequiredString, Required: true},
	{Name: FieldScopeOfWork, Label: "Scope of Work", Kind: KindRequiredString, Required: true},
	{Name: FieldNotes, Label: "Notes", Kind: KindOptionalString},
}

var systemFields = []FieldSpec{
	{Name: FieldTimestamp, Label: "Timestamp", Kind: KindDate, System: true},
	{Name: FieldRequestEvalDate, Label: "Request Evaluation Date", Kind: KindDate, System: true},
}

// requiredFields keeps the order missing-field errors are reported in.
var requiredFields = []Field{
	FieldCompanyName,
	FieldPrimaryContactName,
	FieldPrimaryContactEmail,
	FieldSponsorEmail,
	FieldProjectName,
	FieldDesiredStartDate,
	FieldLeaseDuration,
	FieldTimezone,
	FieldOpenShiftVersion,
	FieldApplicationType,
	FieldRequestType,
	FieldClusterSize,
	FieldCloudProvider,
	FieldDescription,
	FieldScopeOfWork,
}

var (
	schema     = map[Field]FieldSpec{}
	fieldOrder = map[Field]int{}
)

func init() {
	for i, spec := range append(append([]FieldSpec{}, formFields...), systemFields...) {
		if _, dup := schema[spec.Name]; dup {
			panic(fmt.Sprintf("labform: duplicate field %q", spec.Name))
		}
		// Address fields are always routed to the email predicate.
		if strings.HasSuffix(string(spec.Name), "_email") && spec.Kind != KindEmail {
			panic(fmt.Sprintf("labform: field %q must use the email kind", spec.Name))
		}
		if spec.Kind == KindChoice && len(spec.Allowed) == 0 {
			panic(fmt.Sprintf("labform: choice field %q has no allowed values", spec.Name))
		}
		schema[spec.Name] = spec
		fieldOrder[spec.Name] = i
	}
	for _, f := range requiredFields {
		if !schema[f].Required {
			panic(fmt.Sprintf("labform: required field %q is not marked required", f))
		}
	}
}

// Lookup returns the schema entry for a field. Unknown fields report false.
func Lookup(f Field) (FieldSpec, bool) {
	spec, ok := schema[f]
	return spec, ok
}

// FormFields returns the collectable fields in schema order.
func FormFields() []FieldSpec {
	out := make([]FieldSpec, len(formFields))
	copy(out, formFields)
	return out
}

// RequiredFields returns the always-required fields in reporting order.
func RequiredFields() []Field {
	out := make([]Field, len(requiredFields))
	copy(out, requiredFields)
	return out
}

// IsKnown reports whether the field is part of the schema.
func (f Field) IsKnown() bool {
	_, ok := schema[f]
	return ok
}
