package model

import (
	"time"

	"gorm.io/datatypes"
)

type LabRequest struct {
	Id              uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp       time.Time `gorm:"not null"`
	RequestState    string    `gorm:"type:varchar(50);not null;default:pending;index"`
	RequestEvalDate time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	EmailAddress string `gorm:"type:varchar(255);not null;index"`

	CompanyName           string  `gorm:"type:varchar(255);not null"`
	PrimaryContactName    string  `gorm:"type:varchar(255);not null"`
	PrimaryContactEmail   string  `gorm:"type:varchar(255);not null"`
	SecondaryContactName  *string `gorm:"type:varchar(255)"`
	SecondaryContactEmail *string `gorm:"type:varchar(255)"`
	SponsorEmail          string  `gorm:"type:varchar(255);not null"`

	ProjectName      string `gorm:"type:varchar(255);not null"`
	DesiredStartDate string `gorm:"type:varchar(64);not null"`
	LeaseDuration    string `gorm:"type:varchar(10);not null"`
	Timezone         string `gorm:"type:varchar(100);not null"`

	OpenShiftVersion    string  `gorm:"column:openshift_version;type:varchar(20);not null"`
	Virtualization      *bool   `gorm:"type:boolean"`
	ClusterRequirements *string `gorm:"type:text"`
	ApplicationType     string  `gorm:"type:varchar(50);not null"`
	RequestType         string  `gorm:"type:varchar(50);not null"`
	ClusterSize         string  `gorm:"type:varchar(20);not null"`
	CloudProvider       string  `gorm:"type:varchar(50);not null"`

	Description string  `gorm:"type:text;not null"`
	ScopeOfWork string  `gorm:"type:text;not null"`
	Notes       *string `gorm:"type:text"`

	ExtraFields datatypes.JSONMap `gorm:"type:json"`
}

func (LabRequest) TableName() string {
	return "lab_requests"
}
