package server

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "trustcall.directory.v1.DirectoryService"

// Method names.
const (
	MethodRegisterIdentity = "RegisterIdentity"
	MethodAddContact       = "AddContact"
	MethodReportSpam       = "ReportSpam"
	MethodGetSpamScore     = "GetSpamScore"
	MethodSearchByName     = "SearchByName"
	MethodSearchByPhone    = "SearchByPhone"
	MethodPersonDetail     = "PersonDetail"
	MethodTopSpamNumbers   = "TopSpamNumbers"
	MethodSpamTrends       = "SpamTrends"
)

// DirectoryServer is the server API for DirectoryService.
type DirectoryServer interface {
	RegisterIdentity(context.Context, *RegisterIdentityRequest) (*RegisterIdentityResponse, error)
	AddContact(context.Context, *AddContactRequest) (*AddContactResponse, error)
	ReportSpam(context.Context, *ReportSpamRequest) (*ReportSpamResponse, error)
	GetSpamScore(context.Context, *GetSpamScoreRequest) (*GetSpamScoreResponse, error)
	SearchByName(context.Context, *SearchByNameRequest) (*SearchByNameResponse, error)
	SearchByPhone(context.Context, *SearchByPhoneRequest) (*SearchByPhoneResponse, error)
	PersonDetail(context.Context, *PersonDetailRequest) (*PersonDetailResponse, error)
	TopSpamNumbers(context.Context, *TopSpamNumbersRequest) (*TopSpamNumbersResponse, error)
	SpamTrends(context.Context, *SpamTrendsRequest) (*SpamTrendsResponse, error)
}

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ServiceDesc describes DirectoryService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodRegisterIdentity, Handler: unary(MethodRegisterIdentity, DirectoryServer.RegisterIdentity)},
		{MethodName: MethodAddContact, Handler: unary(MethodAddContact, DirectoryServer.AddContact)},
		{MethodName: MethodReportSpam, Handler: unary(MethodReportSpam, DirectoryServer.ReportSpam)},
		{MethodName: MethodGetSpamScore, Handler: unary(MethodGetSpamScore, DirectoryServer.GetSpamScore)},
		{MethodName: MethodSearchByName, Handler: unary(MethodSearchByName, DirectoryServer.SearchByName)},
		{MethodName: MethodSearchByPhone, Handler: unary(MethodSearchByPhone, DirectoryServer.SearchByPhone)},
		{MethodName: MethodPersonDetail, Handler: unary(MethodPersonDetail, DirectoryServer.PersonDetail)},
		{MethodName: MethodTopSpamNumbers, Handler: unary(MethodTopSpamNumbers, DirectoryServer.TopSpamNumbers)},
		{MethodName: MethodSpamTrends, Handler: unary(MethodSpamTrends, DirectoryServer.SpamTrends)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterDirectoryServer registers srv on s.
func RegisterDirectoryServer(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler, running it through the interceptor chain.
func unary[Req, Resp any](method string, call func(DirectoryServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := FullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DirectoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DirectoryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
