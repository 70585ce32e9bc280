package mapper

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gorm.io/datatypes"

	"partnerlab-agent-be/internal/entity"
	"partnerlab-agent-be/internal/model"
	"partnerlab-agent-be/pkg/labform"
)

type LabRequestMapper struct{}

func NewLabRequestMapper() *LabRequestMapper {
	return &LabRequestMapper{}
}

// DecodeForm copies a form into its typed shape. Fields outside the schema
// are returned separately so nothing the user supplied is dropped. Optional
// fields set to null are recorded there too, so null and absent stay apart.
func (m *LabRequestMapper) DecodeForm(form labform.FormState) (entity.LabRequestForm, map[string]interface{}, error) {
	var out entity.LabRequestForm
	var md mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   &out,
		TagName:  "mapstructure",
	})
	if err != nil {
		return out, nil, err
	}

	raw := form.AsMap()
	if err := decoder.Decode(raw); err != nil {
		return out, nil, fmt.Errorf("decode form: %w", err)
	}

	var extra map[string]interface{}
	keep := func(k string) {
		if extra == nil {
			extra = make(map[string]interface{})
		}
		extra[k] = raw[k]
	}
	for _, k := range md.Unused {
		keep(k)
	}
	for k, v := range raw {
		if v == nil && labform.Field(k).IsKnown() {
			keep(k)
		}
	}
	return out, extra, nil
}

// FormData flattens a request back to field -> value. Optional fields that
// were never given are left out; explicit nulls come back from ExtraFields.
func (m *LabRequestMapper) FormData(r *entity.LabRequest) map[string]interface{} {
	f := r.Form
	out := map[string]interface{}{
		string(labform.FieldCompanyName):         f.CompanyName,
		string(labform.FieldPrimaryContactName):  f.PrimaryContactName,
		string(labform.FieldPrimaryContactEmail): f.PrimaryContactEmail,
		string(labform.FieldSponsorEmail):        f.SponsorEmail,
		string(labform.FieldProjectName):         f.ProjectName,
		string(labform.FieldDesiredStartDate):    f.DesiredStartDate,
		string(labform.FieldLeaseDuration):       f.LeaseDuration,
		string(labform.FieldTimezone):            f.Timezone,
		string(labform.FieldOpenShiftVersion):    f.OpenShiftVersion,
		string(labform.FieldApplicationType):     f.ApplicationType,
		string(labform.FieldRequestType):         f.RequestType,
		string(labform.FieldClusterSize):         f.ClusterSize,
		string(labform.FieldCloudProvider):       f.CloudProvider,
		string(labform.FieldDescription):         f.Description,
		string(labform.FieldScopeOfWork):         f.ScopeOfWork,
	}
	optional := map[labform.Field]*string{
		labform.FieldSecondaryContactName:  f.SecondaryContactName,
		labform.FieldSecondaryContactEmail: f.SecondaryContactEmail,
		labform.FieldClusterRequirements:   f.ClusterRequirements,
		labform.FieldNotes:                 f.Notes,
	}
	for k, v := range optional {
		if v != nil {
			out[string(k)] = *v
		}
	}
	if f.Virtualization != nil {
		out[string(labform.FieldVirtualization)] = *f.Virtualization
	}
	for k, v := range r.ExtraFields {
		if _, taken := out[k]; !taken {
			out[k] = v
		}
	}
	return out
}

func (m *LabRequestMapper) ToModel(r *entity.LabRequest) *model.LabRequest {
	if r == nil {
		return nil
	}
	f := r.Form

	var extra datatypes.JSONMap
	if len(r.ExtraFields) > 0 {
		extra = datatypes.JSONMap(r.ExtraFields)
	}

	return &model.LabRequest{
		Id:                    r.Id,
		Timestamp:             r.Timestamp,
		RequestState:          r.RequestState,
		RequestEvalDate:       r.RequestEvalDate,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		EmailAddress:          r.EmailAddress,
		CompanyName:           f.CompanyName,
		PrimaryContactName:    f.PrimaryContactName,
		PrimaryContactEmail:   f.PrimaryContactEmail,
		SecondaryContactName:  f.SecondaryContactName,
		SecondaryContactEmail: f.SecondaryContactEmail,
		SponsorEmail:          f.SponsorEmail,
		ProjectName:           f.ProjectName,
		DesiredStartDate:      f.DesiredStartDate,
		LeaseDuration:         f.LeaseDuration,
		Timezone:              f.Timezone,
		OpenShiftVersion:      f.OpenShiftVersion,
		Virtualization:        copyBool(f.Virtualization),
		ClusterRequirements:   f.ClusterRequirements,
		ApplicationType:       f.ApplicationType,
		RequestType:           f.RequestType,
		ClusterSize:           f.ClusterSize,
		CloudProvider:         f.CloudProvider,
		Description:           f.Description,
		ScopeOfWork:           f.ScopeOfWork,
		Notes:                 f.Notes,
		ExtraFields:           extra,
	}
}

func (m *LabRequestMapper) ToEntity(r *model.LabRequest) *entity.LabRequest {
	if r == nil {
		return nil
	}
	var extra map[string]interface{}
	if len(r.ExtraFields) > 0 {
		extra = map[string]interface{}(r.ExtraFields)
	}

	return &entity.LabRequest{
		Id:              r.Id,
		Timestamp:       r.Timestamp,
		RequestState:    r.RequestState,
		RequestEvalDate: r.RequestEvalDate,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		EmailAddress:    r.EmailAddress,
		Form: entity.LabRequestForm{
			CompanyName:           r.CompanyName,
			PrimaryContactName:    r.PrimaryContactName,
			PrimaryContactEmail:   r.PrimaryContactEmail,
			SecondaryContactName:  r.SecondaryContactName,
			SecondaryContactEmail: r.SecondaryContactEmail,
			SponsorEmail:          r.SponsorEmail,
			ProjectName:           r.ProjectName,
			DesiredStartDate:      r.DesiredStartDate,
			LeaseDuration:         r.LeaseDuration,
			Timezone:              r.Timezone,
			OpenShiftVersion:      r.OpenShiftVersion,
			Virtualization:        copyBool(r.Virtualization),
			ClusterRequirements:   r.ClusterRequirements,
			ApplicationType:       r.ApplicationType,
			RequestType:           r.RequestType,
			ClusterSize:           r.ClusterSize,
			CloudProvider:         r.CloudProvider,
			Description:           r.Description,
			ScopeOfWork:           r.ScopeOfWork,
			Notes:                 r.Notes,
		},
		ExtraFields: extra,
	}
}

func (m *LabRequestMapper) ToEntities(models []*model.LabRequest) []*entity.LabRequest {
	entities := make([]*entity.LabRequest, len(models))
	for i, r := range models {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
