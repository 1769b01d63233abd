package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassModel struct {
	ClassID          uuid.UUID `gorm:"type:uuid;primaryKey;column:class_id" json:"class_id"`
	ClassName        string    `gorm:"size:50;not null;uniqueIndex:uq_classes_name;column:class_name" json:"class_name"`
	ClassDescription string    `gorm:"type:text;column:class_description" json:"class_description,omitempty"`

	ClassCreatedAt time.Time `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
}

func (ClassModel) TableName() string {
	return "classes"
}

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}
