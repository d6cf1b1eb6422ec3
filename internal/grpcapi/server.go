package grpcapi

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Leganyst/consultation-platform/internal/service"
)

const (
	ServiceName = "consultation.v1.ConsultationService"

	// Проставляются сессионным слоем перед ядром.
	MetadataAccountID    = "x-account-id"
	MetadataAccountEmail = "x-account-email"
)

// Acceptor вызывается на каждое подтверждение.
type Acceptor interface {
	Accept(ctx context.Context, in service.AcceptInput) error
}

// ConsultationServiceServer: контракт, которому соответствует ServiceDesc.
type ConsultationServiceServer interface {
	AcceptConsultationReq(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
}

type ConsultationServer struct {
	acceptor    Acceptor
	now         func() time.Time
	newRoomName func() string
	log         *zap.Logger
}

func NewConsultationServer(acceptor Acceptor, log *zap.Logger) *ConsultationServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConsultationServer{
		acceptor:    acceptor,
		now:         func() time.Time { return time.Now().UTC() },
		newRoomName: uuid.NewString,
		log:         log.Named("grpc"),
	}
}

// WithClock подменяет источник текущего времени.
func (s *ConsultationServer) WithClock(now func() time.Time) *ConsultationServer {
	s.now = now
	return s
}

func (s *ConsultationServer) AcceptConsultationReq(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	accountID, email, err := accountFromMetadata(ctx)
	if err != nil {
		s.log.Warn("call without account identity", zap.Error(err))
		return nil, err
	}

	req := decodeAcceptRequest(in)

	err = s.acceptor.Accept(ctx, service.AcceptInput{
		ConsultantID:    accountID,
		ConsultantEmail: email,
		RoomName:        s.newRoomName(),
		CurrentTime:     s.now(),
		Request:         req,
	})
	if err != nil {
		return nil, StatusFromError(err)
	}

	return &emptypb.Empty{}, nil
}

func Register(srv *grpc.Server, impl ConsultationServiceServer) {
	srv.RegisterService(&consultationServiceDesc, impl)
}

func accountFromMetadata(ctx context.Context) (int64, string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return 0, "", status.Error(codes.Unauthenticated, "missing metadata")
	}

	ids := md.Get(MetadataAccountID)
	if len(ids) == 0 {
		return 0, "", status.Error(codes.Unauthenticated, MetadataAccountID+" is required")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(ids[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, "", status.Error(codes.Unauthenticated, MetadataAccountID+" must be a positive integer")
	}

	var email string
	if emails := md.Get(MetadataAccountEmail); len(emails) > 0 {
		email = strings.TrimSpace(emails[0])
	}
	if email == "" {
		return 0, "", status.Error(codes.Unauthenticated, MetadataAccountEmail+" is required")
	}

	return id, email, nil
}

// decodeAcceptRequest читает поля Struct напрямую. Отсутствующее поле, поле другого типа,
// дробное число или число вне диапазона дают нулевое значение: его отклоняет сам сервис
// со своим кодом, и клиент всегда получает причину в ErrorInfo.
func decodeAcceptRequest(in *structpb.Struct) service.AcceptRequest {
	fields := in.GetFields()

	var req service.AcceptRequest
	if id, ok := integralNumber(fields["consultation_req_id"], math.MinInt64, math.MaxInt64); ok {
		req.ConsultationReqID = int64(id)
	}
	if picked, ok := integralNumber(fields["picked_candidate"], math.MinInt32, math.MaxInt32); ok {
		req.PickedCandidate = int32(picked)
	}
	if b, ok := fields["user_checked"].GetKind().(*structpb.Value_BoolValue); ok {
		req.UserChecked = b.BoolValue
	}
	return req
}

// integralNumber: целое число в [lo, hi]. Для int64 hi+1 округляется до 2^63,
// так что 2^63 тоже отсекается.
func integralNumber(v *structpb.Value, lo, hi float64) (float64, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < lo || f >= hi+1 {
		return 0, false
	}
	return f, true
}

func acceptConsultationReqHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConsultationServiceServer).AcceptConsultationReq(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/AcceptConsultationReq",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ConsultationServiceServer).AcceptConsultationReq(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Описание сервиса без сгенерированного кода: на входе google.protobuf.Struct, на выходе Empty.
var consultationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConsultationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AcceptConsultationReq",
			Handler:    acceptConsultationReqHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "consultation/v1/consultation.proto",
}
