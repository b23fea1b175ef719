package service

import (
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/pkg/apperr"
	"regexp"
	"strings"
	"time"
)

// contactPattern 是以 6-9 开头的 10 位手机号。
var contactPattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// AdmissionInput 是访客提交的原始报名数据。
// 两个布尔字段使用指针，以区分"未提供"和"false"。
type AdmissionInput struct {
	StudentName           string `json:"studentName"`
	StudentClass          string `json:"studentClass"`
	BatchSelection        string `json:"batchSelection"`
	ParentName            string `json:"parentName"`
	Contact               string `json:"contact"`
	Address               string `json:"address"`
	MockTestParticipation *bool  `json:"mockTestParticipation"`
	ConsentGiven          *bool  `json:"consentGiven"`
}

// ValidAdmission 是通过校验的报名数据，只能由 ValidateAdmission 生成。
type ValidAdmission struct {
	studentName           string
	studentClass          string
	batchSelection        string
	parentName            string
	contact               string
	address               string
	mockTestParticipation bool
}

// Record 生成待入库的记录，状态为 pending，提交时间为 now。
func (v ValidAdmission) Record(now time.Time) *model.Admission {
	return &model.Admission{
		StudentName:           v.studentName,
		StudentClass:          v.studentClass,
		BatchSelection:        v.batchSelection,
		ParentName:            v.parentName,
		Contact:               v.contact,
		Address:               v.address,
		MockTestParticipation: v.mockTestParticipation,
		ConsentGiven:          true,
		Status:                model.StatusPending,
		SubmittedAt:           now,
	}
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// ValidateAdmission 按字段顺序校验报名数据，返回第一个不通过的字段。
// 文本字段会去除首尾空白。
func ValidateAdmission(in AdmissionInput) (ValidAdmission, error) {
	var v ValidAdmission

	v.studentName = strings.TrimSpace(in.StudentName)
	if v.studentName == "" {
		return ValidAdmission{}, apperr.New(apperr.KindMissingField, "studentName", "Student name is required")
	}

	v.studentClass = strings.TrimSpace(in.StudentClass)
	if v.studentClass == "" {
		return ValidAdmission{}, apperr.New(apperr.KindMissingField, "studentClass", "Please select a class")
	}
	if !oneOf(v.studentClass, model.StudentClasses) {
		return ValidAdmission{}, apperr.New(apperr.KindInvalidEnum, "studentClass", "Please select a valid class")
	}

	v.batchSelection = strings.TrimSpace(in.BatchSelection)
	if v.batchSelection == "" {
		return ValidAdmission{}, apperr.New(apperr.KindMissingField, "batchSelection", "Please select a batch")
	}
	if !oneOf(v.batchSelection, model.Batches) {
		return ValidAdmission{}, apperr.New(apperr.KindInvalidEnum, "batchSelection", "Please select a valid batch")
	}

	v.parentName = strings.TrimSpace(in.ParentName)
	if v.parentName == "" {
		return ValidAdmission{}, apperr.New(apperr.KindMissingField, "parentName", "Parent name is required")
	}

	v.contact = strings.TrimSpace(in.Contact)
	if v.contact == "" {
		return ValidAdmission{}, apperr.New(apperr.KindMissingField, "contact", "Contact number is required")
	}
	if !contactPattern.MatchString(v.contact) {
		return ValidAdmission{}, apperr.New(apperr.KindInvalidFormat, "contact", "Please enter a valid 10-digit mobile number")
	}

	v.address = strings.TrimSpace(in.Address)
	if v.address == "" {
		return ValidAdmission{}, apperr.New(apperr.KindMissingField, "address", "Address is required")
	}

	if in.ConsentGiven == nil || !*in.ConsentGiven {
		return ValidAdmission{}, apperr.New(apperr.KindConsentRequired, "consentGiven", "Consent is required to submit the enquiry")
	}

	if in.MockTestParticipation != nil {
		v.mockTestParticipation = *in.MockTestParticipation
	}
	return v, nil
}
