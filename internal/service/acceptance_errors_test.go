package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Fatalf("expected empty code for nil, got %q", got)
	}
	if got := CodeOf(errors.New("boom")); got != CodeInternal {
		t.Fatalf("expected internal for plain error, got %q", got)
	}

	wrapped := fmt.Errorf("handler: %w", newRejection(CodeUserHasSameMeetingDateTime))
	if got := CodeOf(wrapped); got != CodeUserHasSameMeetingDateTime {
		t.Fatalf("expected code through wrapping, got %q", got)
	}
	if IsInternal(wrapped) {
		t.Fatalf("rejection must not be internal")
	}
}

func TestAcceptanceError_InternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := newInternal(cause)

	if !err.IsInternal() || !IsInternal(err) {
		t.Fatalf("expected internal error")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must be reachable through Unwrap")
	}
	if err.Message != codeMessages[CodeInternal] || strings.Contains(err.Message, "connection") {
		t.Fatalf("message must not leak cause, got %q", err.Message)
	}
}

func TestCodeMessages_Complete(t *testing.T) {
	codes := []ErrorCode{
		CodeInvalidCandidate,
		CodeUserDoesNotCheckConfirmationItems,
		CodeNonPositiveConsultationReqID,
		CodeNoConsultationReqFound,
		CodeTheOtherPersonAccountIsNotAvailable,
		CodeNoEnoughSpareTimeBeforeMeeting,
		CodeConsultantHasSameMeetingDateTime,
		CodeUserHasSameMeetingDateTime,
		CodeMeetingDateTimeOverlapsMaintenance,
		CodeInternal,
	}
	for _, c := range codes {
		if codeMessages[c] == "" {
			t.Fatalf("missing message for %s", c)
		}
	}
}
