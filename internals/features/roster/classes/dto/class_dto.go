package dto

import (
	"strings"

	"attendance_backend/internals/features/roster/classes/model"
)

type CreateClassRequest struct {
	ClassName        string `json:"class_name" validate:"required,max=50"`
	ClassDescription string `json:"class_description" validate:"omitempty,max=2000"`
}

func (r *CreateClassRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.ClassDescription = strings.TrimSpace(r.ClassDescription)
}

func (r *CreateClassRequest) ToModel() *model.ClassModel {
	return &model.ClassModel{ClassName: r.ClassName, ClassDescription: r.ClassDescription}
}

type UpdateClassRequest struct {
	ClassName        *string `json:"class_name" validate:"omitnil,min=1,max=50"`
	ClassDescription *string `json:"class_description" validate:"omitempty,max=2000"`
}

func (r *UpdateClassRequest) Normalize() {
	if r.ClassName != nil {
		v := strings.TrimSpace(*r.ClassName)
		r.ClassName = &v
	}
	if r.ClassDescription != nil {
		v := strings.TrimSpace(*r.ClassDescription)
		r.ClassDescription = &v
	}
}

func (r *UpdateClassRequest) ToUpdates() map[string]any {
	up := map[string]any{}
	if r.ClassName != nil {
		up["class_name"] = *r.ClassName
	}
	if r.ClassDescription != nil {
		up["class_description"] = *r.ClassDescription
	}
	return up
}
