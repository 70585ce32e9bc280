package entity

import "time"

const RequestStatePending = "pending"

// LabRequestForm is the typed copy of a validated form. Optional answers
// are pointers so "not provided" survives the round trip.
type LabRequestForm struct {
	CompanyName           string  `mapstructure:"company_name"`
	PrimaryContactName    string  `mapstructure:"primary_contact_name"`
	PrimaryContactEmail   string  `mapstructure:"primary_contact_email"`
	SecondaryContactName  *string `mapstructure:"secondary_contact_name"`
	SecondaryContactEmail *string `mapstructure:"secondary_contact_email"`
	SponsorEmail          string  `mapstructure:"sponsor_email"`
	ProjectName           string  `mapstructure:"project_name"`
	DesiredStartDate      string  `mapstructure:"desired_start_date"`
	LeaseDuration         string  `mapstructure:"lease_duration"`
	Timezone              string  `mapstructure:"timezone"`
	OpenShiftVersion      string  `mapstructure:"openshift_version"`
	Virtualization        *bool   `mapstructure:"virtualization"`
	ClusterRequirements   *string `mapstructure:"cluster_requirements"`
	ApplicationType       string  `mapstructure:"application_type"`
	RequestType           string  `mapstructure:"request_type"`
	ClusterSize           string  `mapstructure:"cluster_size"`
	CloudProvider         string  `mapstructure:"cloud_provider"`
	Description           string  `mapstructure:"description"`
	ScopeOfWork           string  `mapstructure:"scope_of_work"`
	Notes                 *string `mapstructure:"notes"`
}

// LabRequest is a submitted request. Only RequestState is ever changed after
// creation, and not by this service.
type LabRequest struct {
	Id              uint
	Timestamp       time.Time
	RequestState    string
	RequestEvalDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	EmailAddress    string
	Form            LabRequestForm
	ExtraFields     map[string]interface{}
}
