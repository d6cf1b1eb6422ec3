package service

import (
	"errors"
	"fmt"
)

// ErrorCode: стабильный код ошибки для вызывающего.
type ErrorCode string

const (
	CodeInvalidCandidate                    ErrorCode = "INVALID_CANDIDATE"
	CodeUserDoesNotCheckConfirmationItems   ErrorCode = "USER_DOES_NOT_CHECK_CONFIRMATION_ITEMS"
	CodeNonPositiveConsultationReqID        ErrorCode = "NON_POSITIVE_CONSULTATION_REQ_ID"
	CodeNoConsultationReqFound              ErrorCode = "NO_CONSULTATION_REQ_FOUND"
	CodeTheOtherPersonAccountIsNotAvailable ErrorCode = "THE_OTHER_PERSON_ACCOUNT_IS_NOT_AVAILABLE"
	CodeNoEnoughSpareTimeBeforeMeeting      ErrorCode = "NO_ENOUGH_SPARE_TIME_BEFORE_MEETING"
	CodeConsultantHasSameMeetingDateTime    ErrorCode = "CONSULTANT_HAS_SAME_MEETING_DATE_TIME"
	CodeUserHasSameMeetingDateTime          ErrorCode = "USER_HAS_SAME_MEETING_DATE_TIME"
	CodeMeetingDateTimeOverlapsMaintenance  ErrorCode = "MEETING_DATE_TIME_OVERLAPS_MAINTENANCE"

	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

var codeMessages = map[ErrorCode]string{
	CodeInvalidCandidate:                    "picked candidate must be 1, 2 or 3",
	CodeUserDoesNotCheckConfirmationItems:   "confirmation items must be checked",
	CodeNonPositiveConsultationReqID:        "consultation request id must be positive",
	CodeNoConsultationReqFound:              "consultation request not found",
	CodeTheOtherPersonAccountIsNotAvailable: "the other person's account is not available",
	CodeNoEnoughSpareTimeBeforeMeeting:      "not enough spare time before the meeting",
	CodeConsultantHasSameMeetingDateTime:    "consultant already has a consultation at this date time",
	CodeUserHasSameMeetingDateTime:          "user already has a consultation at this date time",
	CodeMeetingDateTimeOverlapsMaintenance:  "meeting date time overlaps scheduled maintenance",
	CodeInternal:                            "internal server error",
}

// AcceptanceError: единственный тип ошибки ядра подтверждения.
// Err заполняется только для внутренних ошибок и наружу не уходит.
type AcceptanceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AcceptanceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AcceptanceError) Unwrap() error {
	return e.Err
}

func (e *AcceptanceError) IsInternal() bool {
	return e.Code == CodeInternal
}

func newRejection(code ErrorCode) *AcceptanceError {
	return &AcceptanceError{Code: code, Message: codeMessages[code]}
}

func newInternal(err error) *AcceptanceError {
	return &AcceptanceError{Code: CodeInternal, Message: codeMessages[CodeInternal], Err: err}
}

// CodeOf возвращает код ошибки; всё, что не AcceptanceError, считается внутренней ошибкой.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var accErr *AcceptanceError
	if errors.As(err, &accErr) {
		return accErr.Code
	}
	return CodeInternal
}

func IsInternal(err error) bool {
	return err != nil && CodeOf(err) == CodeInternal
}
