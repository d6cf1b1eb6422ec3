package grpcapi

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Leganyst/consultation-platform/internal/service"
)

const errorDomain = "consultation.v1"

// StatusFromError переводит ошибку ядра в gRPC-статус.
// Код ошибки уходит клиенту в ErrorInfo.Reason, причина внутренней ошибки не уходит.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}

	code := service.CodeOf(err)
	msg := "internal server error"
	var accErr *service.AcceptanceError
	if errors.As(err, &accErr) && !accErr.IsInternal() {
		msg = accErr.Message
	}

	st := status.New(grpcCode(code), msg)
	withInfo, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(code),
		Domain: errorDomain,
	})
	if detailErr != nil {
		return st.Err()
	}
	return withInfo.Err()
}

func grpcCode(code service.ErrorCode) codes.Code {
	switch code {
	case service.CodeInvalidCandidate,
		service.CodeUserDoesNotCheckConfirmationItems,
		service.CodeNonPositiveConsultationReqID:
		return codes.InvalidArgument
	case service.CodeNoConsultationReqFound:
		return codes.NotFound
	case service.CodeTheOtherPersonAccountIsNotAvailable,
		service.CodeNoEnoughSpareTimeBeforeMeeting,
		service.CodeConsultantHasSameMeetingDateTime,
		service.CodeUserHasSameMeetingDateTime,
		service.CodeMeetingDateTimeOverlapsMaintenance:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// ReasonOf достаёт код ошибки ядра из статуса, "" если его нет.
func ReasonOf(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return info.GetReason()
		}
	}
	return ""
}
