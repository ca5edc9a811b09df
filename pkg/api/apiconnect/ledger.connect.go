// Package apiconnect wires the partio.v1.LedgerService messages in package
// api to connect handlers and clients. It is laid out like protoc-gen-connect-go
// output, with the JSON codec registered on both sides.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/partio/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "partio.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	// LedgerServiceAddMemberProcedure is the fully-qualified name of the LedgerService's AddMember RPC.
	LedgerServiceAddMemberProcedure = "/partio.v1.LedgerService/AddMember"
	// LedgerServiceRemoveMemberProcedure is the fully-qualified name of the LedgerService's RemoveMember RPC.
	LedgerServiceRemoveMemberProcedure = "/partio.v1.LedgerService/RemoveMember"
	// LedgerServiceSetPayoutKeyProcedure is the fully-qualified name of the LedgerService's SetPayoutKey RPC.
	LedgerServiceSetPayoutKeyProcedure = "/partio.v1.LedgerService/SetPayoutKey"
	// LedgerServiceListMembersProcedure is the fully-qualified name of the LedgerService's ListMembers RPC.
	LedgerServiceListMembersProcedure = "/partio.v1.LedgerService/ListMembers"
	// LedgerServiceAddExpenseProcedure is the fully-qualified name of the LedgerService's AddExpense RPC.
	LedgerServiceAddExpenseProcedure = "/partio.v1.LedgerService/AddExpense"
	// LedgerServiceRemoveExpenseProcedure is the fully-qualified name of the LedgerService's RemoveExpense RPC.
	LedgerServiceRemoveExpenseProcedure = "/partio.v1.LedgerService/RemoveExpense"
	// LedgerServiceListExpensesProcedure is the fully-qualified name of the LedgerService's ListExpenses RPC.
	LedgerServiceListExpensesProcedure = "/partio.v1.LedgerService/ListExpenses"
	// LedgerServiceAddPaymentProcedure is the fully-qualified name of the LedgerService's AddPayment RPC.
	LedgerServiceAddPaymentProcedure = "/partio.v1.LedgerService/AddPayment"
	// LedgerServiceRemovePaymentProcedure is the fully-qualified name of the LedgerService's RemovePayment RPC.
	LedgerServiceRemovePaymentProcedure = "/partio.v1.LedgerService/RemovePayment"
	// LedgerServiceListPaymentsProcedure is the fully-qualified name of the LedgerService's ListPayments RPC.
	LedgerServiceListPaymentsProcedure = "/partio.v1.LedgerService/ListPayments"
	// LedgerServiceGetBalancesProcedure is the fully-qualified name of the LedgerService's GetBalances RPC.
	LedgerServiceGetBalancesProcedure = "/partio.v1.LedgerService/GetBalances"
	// LedgerServiceGetSettlementProcedure is the fully-qualified name of the LedgerService's GetSettlement RPC.
	LedgerServiceGetSettlementProcedure = "/partio.v1.LedgerService/GetSettlement"
	// LedgerServiceExportLedgerProcedure is the fully-qualified name of the LedgerService's ExportLedger RPC.
	LedgerServiceExportLedgerProcedure = "/partio.v1.LedgerService/ExportLedger"
	// LedgerServiceImportLedgerProcedure is the fully-qualified name of the LedgerService's ImportLedger RPC.
	LedgerServiceImportLedgerProcedure = "/partio.v1.LedgerService/ImportLedger"
	// LedgerServiceClearLedgerProcedure is the fully-qualified name of the LedgerService's ClearLedger RPC.
	LedgerServiceClearLedgerProcedure = "/partio.v1.LedgerService/ClearLedger"
	// LedgerServiceSyncFromSheetProcedure is the fully-qualified name of the LedgerService's SyncFromSheet RPC.
	LedgerServiceSyncFromSheetProcedure = "/partio.v1.LedgerService/SyncFromSheet"
)

// LedgerServiceClient is a client for the partio.v1.LedgerService service.
type LedgerServiceClient interface {
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	SetPayoutKey(context.Context, *connect.Request[api.SetPayoutKeyRequest]) (*connect.Response[api.SetPayoutKeyResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	AddPayment(context.Context, *connect.Request[api.AddPaymentRequest]) (*connect.Response[api.AddPaymentResponse], error)
	RemovePayment(context.Context, *connect.Request[api.RemovePaymentRequest]) (*connect.Response[api.RemovePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ExportLedger(context.Context, *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error)
	ImportLedger(context.Context, *connect.Request[api.ImportLedgerRequest]) (*connect.Response[api.ImportLedgerResponse], error)
	ClearLedger(context.Context, *connect.Request[api.ClearLedgerRequest]) (*connect.Response[api.ClearLedgerResponse], error)
	SyncFromSheet(context.Context, *connect.Request[api.SyncFromSheetRequest]) (*connect.Response[api.SyncFromSheetResponse], error)
}

// NewLedgerServiceClient constructs a client for the partio.v1.LedgerService
// service. By default, it uses the Connect protocol with the JSON codec.
//
// The URL supplied here should be the base URL for the Connect server (for
// example, http://api.acme.com or https://acme.com/grpc).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &ledgerServiceClient{
		addMember: connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](
			httpClient,
			baseURL+LedgerServiceAddMemberProcedure,
			connect.WithClientOptions(opts...),
		),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](
			httpClient,
			baseURL+LedgerServiceRemoveMemberProcedure,
			connect.WithClientOptions(opts...),
		),
		setPayoutKey: connect.NewClient[api.SetPayoutKeyRequest, api.SetPayoutKeyResponse](
			httpClient,
			baseURL+LedgerServiceSetPayoutKeyProcedure,
			connect.WithClientOptions(opts...),
		),
		listMembers: connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](
			httpClient,
			baseURL+LedgerServiceListMembersProcedure,
			connect.WithClientOptions(opts...),
		),
		addExpense: connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](
			httpClient,
			baseURL+LedgerServiceAddExpenseProcedure,
			connect.WithClientOptions(opts...),
		),
		removeExpense: connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](
			httpClient,
			baseURL+LedgerServiceRemoveExpenseProcedure,
			connect.WithClientOptions(opts...),
		),
		listExpenses: connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](
			httpClient,
			baseURL+LedgerServiceListExpensesProcedure,
			connect.WithClientOptions(opts...),
		),
		addPayment: connect.NewClient[api.AddPaymentRequest, api.AddPaymentResponse](
			httpClient,
			baseURL+LedgerServiceAddPaymentProcedure,
			connect.WithClientOptions(opts...),
		),
		removePayment: connect.NewClient[api.RemovePaymentRequest, api.RemovePaymentResponse](
			httpClient,
			baseURL+LedgerServiceRemovePaymentProcedure,
			connect.WithClientOptions(opts...),
		),
		listPayments: connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](
			httpClient,
			baseURL+LedgerServiceListPaymentsProcedure,
			connect.WithClientOptions(opts...),
		),
		getBalances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](
			httpClient,
			baseURL+LedgerServiceGetBalancesProcedure,
			connect.WithClientOptions(opts...),
		),
		getSettlement: connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](
			httpClient,
			baseURL+LedgerServiceGetSettlementProcedure,
			connect.WithClientOptions(opts...),
		),
		exportLedger: connect.NewClient[api.ExportLedgerRequest, api.ExportLedgerResponse](
			httpClient,
			baseURL+LedgerServiceExportLedgerProcedure,
			connect.WithClientOptions(opts...),
		),
		importLedger: connect.NewClient[api.ImportLedgerRequest, api.ImportLedgerResponse](
			httpClient,
			baseURL+LedgerServiceImportLedgerProcedure,
			connect.WithClientOptions(opts...),
		),
		clearLedger: connect.NewClient[api.ClearLedgerRequest, api.ClearLedgerResponse](
			httpClient,
			baseURL+LedgerServiceClearLedgerProcedure,
			connect.WithClientOptions(opts...),
		),
		syncFromSheet: connect.NewClient[api.SyncFromSheetRequest, api.SyncFromSheetResponse](
			httpClient,
			baseURL+LedgerServiceSyncFromSheetProcedure,
			connect.WithClientOptions(opts...),
		),
	}
}

// ledgerServiceClient implements LedgerServiceClient.
type ledgerServiceClient struct {
	addMember     *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	removeMember  *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	setPayoutKey  *connect.Client[api.SetPayoutKeyRequest, api.SetPayoutKeyResponse]
	listMembers   *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	addExpense    *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	removeExpense *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	addPayment    *connect.Client[api.AddPaymentRequest, api.AddPaymentResponse]
	removePayment *connect.Client[api.RemovePaymentRequest, api.RemovePaymentResponse]
	listPayments  *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	getBalances   *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlement *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	exportLedger  *connect.Client[api.ExportLedgerRequest, api.ExportLedgerResponse]
	importLedger  *connect.Client[api.ImportLedgerRequest, api.ImportLedgerResponse]
	clearLedger   *connect.Client[api.ClearLedgerRequest, api.ClearLedgerResponse]
	syncFromSheet *connect.Client[api.SyncFromSheetRequest, api.SyncFromSheetResponse]
}

// AddMember calls partio.v1.LedgerService.AddMember.
func (c *ledgerServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

// RemoveMember calls partio.v1.LedgerService.RemoveMember.
func (c *ledgerServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

// SetPayoutKey calls partio.v1.LedgerService.SetPayoutKey.
func (c *ledgerServiceClient) SetPayoutKey(ctx context.Context, req *connect.Request[api.SetPayoutKeyRequest]) (*connect.Response[api.SetPayoutKeyResponse], error) {
	return c.setPayoutKey.CallUnary(ctx, req)
}

// ListMembers calls partio.v1.LedgerService.ListMembers.
func (c *ledgerServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

// AddExpense calls partio.v1.LedgerService.AddExpense.
func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

// RemoveExpense calls partio.v1.LedgerService.RemoveExpense.
func (c *ledgerServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

// ListExpenses calls partio.v1.LedgerService.ListExpenses.
func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// AddPayment calls partio.v1.LedgerService.AddPayment.
func (c *ledgerServiceClient) AddPayment(ctx context.Context, req *connect.Request[api.AddPaymentRequest]) (*connect.Response[api.AddPaymentResponse], error) {
	return c.addPayment.CallUnary(ctx, req)
}

// RemovePayment calls partio.v1.LedgerService.RemovePayment.
func (c *ledgerServiceClient) RemovePayment(ctx context.Context, req *connect.Request[api.RemovePaymentRequest]) (*connect.Response[api.RemovePaymentResponse], error) {
	return c.removePayment.CallUnary(ctx, req)
}

// ListPayments calls partio.v1.LedgerService.ListPayments.
func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

// GetBalances calls partio.v1.LedgerService.GetBalances.
func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

// GetSettlement calls partio.v1.LedgerService.GetSettlement.
func (c *ledgerServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

// ExportLedger calls partio.v1.LedgerService.ExportLedger.
func (c *ledgerServiceClient) ExportLedger(ctx context.Context, req *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error) {
	return c.exportLedger.CallUnary(ctx, req)
}

// ImportLedger calls partio.v1.LedgerService.ImportLedger.
func (c *ledgerServiceClient) ImportLedger(ctx context.Context, req *connect.Request[api.ImportLedgerRequest]) (*connect.Response[api.ImportLedgerResponse], error) {
	return c.importLedger.CallUnary(ctx, req)
}

// ClearLedger calls partio.v1.LedgerService.ClearLedger.
func (c *ledgerServiceClient) ClearLedger(ctx context.Context, req *connect.Request[api.ClearLedgerRequest]) (*connect.Response[api.ClearLedgerResponse], error) {
	return c.clearLedger.CallUnary(ctx, req)
}

// SyncFromSheet calls partio.v1.LedgerService.SyncFromSheet.
func (c *ledgerServiceClient) SyncFromSheet(ctx context.Context, req *connect.Request[api.SyncFromSheetRequest]) (*connect.Response[api.SyncFromSheetResponse], error) {
	return c.syncFromSheet.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the partio.v1.LedgerService
// service.
type LedgerServiceHandler interface {
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	SetPayoutKey(context.Context, *connect.Request[api.SetPayoutKeyRequest]) (*connect.Response[api.SetPayoutKeyResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	AddPayment(context.Context, *connect.Request[api.AddPaymentRequest]) (*connect.Response[api.AddPaymentResponse], error)
	RemovePayment(context.Context, *connect.Request[api.RemovePaymentRequest]) (*connect.Response[api.RemovePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ExportLedger(context.Context, *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error)
	ImportLedger(context.Context, *connect.Request[api.ImportLedgerRequest]) (*connect.Response[api.ImportLedgerResponse], error)
	ClearLedger(context.Context, *connect.Request[api.ClearLedgerRequest]) (*connect.Response[api.ClearLedgerResponse], error)
	SyncFromSheet(context.Context, *connect.Request[api.SyncFromSheetRequest]) (*connect.Response[api.SyncFromSheetResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
//
// By default, handlers support the Connect, gRPC, and gRPC-Web protocols with
// the JSON codec.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	ledgerServiceAddMemberHandler := connect.NewUnaryHandler(
		LedgerServiceAddMemberProcedure,
		svc.AddMember,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceRemoveMemberHandler := connect.NewUnaryHandler(
		LedgerServiceRemoveMemberProcedure,
		svc.RemoveMember,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceSetPayoutKeyHandler := connect.NewUnaryHandler(
		LedgerServiceSetPayoutKeyProcedure,
		svc.SetPayoutKey,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceListMembersHandler := connect.NewUnaryHandler(
		LedgerServiceListMembersProcedure,
		svc.ListMembers,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceAddExpenseHandler := connect.NewUnaryHandler(
		LedgerServiceAddExpenseProcedure,
		svc.AddExpense,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceRemoveExpenseHandler := connect.NewUnaryHandler(
		LedgerServiceRemoveExpenseProcedure,
		svc.RemoveExpense,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceListExpensesHandler := connect.NewUnaryHandler(
		LedgerServiceListExpensesProcedure,
		svc.ListExpenses,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceAddPaymentHandler := connect.NewUnaryHandler(
		LedgerServiceAddPaymentProcedure,
		svc.AddPayment,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceRemovePaymentHandler := connect.NewUnaryHandler(
		LedgerServiceRemovePaymentProcedure,
		svc.RemovePayment,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceListPaymentsHandler := connect.NewUnaryHandler(
		LedgerServiceListPaymentsProcedure,
		svc.ListPayments,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceGetBalancesHandler := connect.NewUnaryHandler(
		LedgerServiceGetBalancesProcedure,
		svc.GetBalances,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceGetSettlementHandler := connect.NewUnaryHandler(
		LedgerServiceGetSettlementProcedure,
		svc.GetSettlement,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceExportLedgerHandler := connect.NewUnaryHandler(
		LedgerServiceExportLedgerProcedure,
		svc.ExportLedger,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceImportLedgerHandler := connect.NewUnaryHandler(
		LedgerServiceImportLedgerProcedure,
		svc.ImportLedger,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceClearLedgerHandler := connect.NewUnaryHandler(
		LedgerServiceClearLedgerProcedure,
		svc.ClearLedger,
		connect.WithHandlerOptions(opts...),
	)
	ledgerServiceSyncFromSheetHandler := connect.NewUnaryHandler(
		LedgerServiceSyncFromSheetProcedure,
		svc.SyncFromSheet,
		connect.WithHandlerOptions(opts...),
	)
	return "/partio.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceAddMemberProcedure:
			ledgerServiceAddMemberHandler.ServeHTTP(w, r)
		case LedgerServiceRemoveMemberProcedure:
			ledgerServiceRemoveMemberHandler.ServeHTTP(w, r)
		case LedgerServiceSetPayoutKeyProcedure:
			ledgerServiceSetPayoutKeyHandler.ServeHTTP(w, r)
		case LedgerServiceListMembersProcedure:
			ledgerServiceListMembersHandler.ServeHTTP(w, r)
		case LedgerServiceAddExpenseProcedure:
			ledgerServiceAddExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceRemoveExpenseProcedure:
			ledgerServiceRemoveExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			ledgerServiceListExpensesHandler.ServeHTTP(w, r)
		case LedgerServiceAddPaymentProcedure:
			ledgerServiceAddPaymentHandler.ServeHTTP(w, r)
		case LedgerServiceRemovePaymentProcedure:
			ledgerServiceRemovePaymentHandler.ServeHTTP(w, r)
		case LedgerServiceListPaymentsProcedure:
			ledgerServiceListPaymentsHandler.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			ledgerServiceGetBalancesHandler.ServeHTTP(w, r)
		case LedgerServiceGetSettlementProcedure:
			ledgerServiceGetSettlementHandler.ServeHTTP(w, r)
		case LedgerServiceExportLedgerProcedure:
			ledgerServiceExportLedgerHandler.ServeHTTP(w, r)
		case LedgerServiceImportLedgerProcedure:
			ledgerServiceImportLedgerHandler.ServeHTTP(w, r)
		case LedgerServiceClearLedgerProcedure:
			ledgerServiceClearLedgerHandler.ServeHTTP(w, r)
		case LedgerServiceSyncFromSheetProcedure:
			ledgerServiceSyncFromSheetHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.AddMember is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.RemoveMember is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SetPayoutKey(context.Context, *connect.Request[api.SetPayoutKeyRequest]) (*connect.Response[api.SetPayoutKeyResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.SetPayoutKey is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.ListMembers is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.AddExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.RemoveExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.ListExpenses is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddPayment(context.Context, *connect.Request[api.AddPaymentRequest]) (*connect.Response[api.AddPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.AddPayment is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RemovePayment(context.Context, *connect.Request[api.RemovePaymentRequest]) (*connect.Response[api.RemovePaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.RemovePayment is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.ListPayments is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.GetBalances is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.GetSettlement is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ExportLedger(context.Context, *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.ExportLedger is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ImportLedger(context.Context, *connect.Request[api.ImportLedgerRequest]) (*connect.Response[api.ImportLedgerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.ImportLedger is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ClearLedger(context.Context, *connect.Request[api.ClearLedgerRequest]) (*connect.Response[api.ClearLedgerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.ClearLedger is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SyncFromSheet(context.Context, *connect.Request[api.SyncFromSheetRequest]) (*connect.Response[api.SyncFromSheetResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("partio.v1.LedgerService.SyncFromSheet is not implemented"))
}
