// Package rpc defines the AutomationService Connect surface: procedure
// names, JSON messages and the HTTP handler that routes them.
package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ServiceName is the fully-qualified name of the AutomationService.
const ServiceName = "pfinance.automation.v1.AutomationService"

// Procedure paths, one per RPC.
const (
	ProcessRecurringTransactionsProcedure = "/" + ServiceName + "/ProcessRecurringTransactions"
	CreateRecurrenceRuleProcedure         = "/" + ServiceName + "/CreateRecurrenceRule"
	ListRecurrenceRulesProcedure          = "/" + ServiceName + "/ListRecurrenceRules"
	CreateTransactionProcedure            = "/" + ServiceName + "/CreateTransaction"
	ListTransactionsProcedure             = "/" + ServiceName + "/ListTransactions"
	CheckDuplicateProcedure               = "/" + ServiceName + "/CheckDuplicate"
	AutoBudgetProcedure                   = "/" + ServiceName + "/AutoBudget"
	SuggestBudgetProcedure                = "/" + ServiceName + "/SuggestBudget"
	GenerateInsightsProcedure             = "/" + ServiceName + "/GenerateInsights"
	ListCategoriesProcedure               = "/" + ServiceName + "/ListCategories"
	UpsertCategoryProcedure               = "/" + ServiceName + "/UpsertCategory"
)

// AutomationServiceHandler is implemented by the service.
type AutomationServiceHandler interface {
	ProcessRecurringTransactions(context.Context, *connect.Request[ProcessRecurringTransactionsRequest]) (*connect.Response[ProcessRecurringTransactionsResponse], error)
	CreateRecurrenceRule(context.Context, *connect.Request[CreateRecurrenceRuleRequest]) (*connect.Response[CreateRecurrenceRuleResponse], error)
	ListRecurrenceRules(context.Context, *connect.Request[ListRecurrenceRulesRequest]) (*connect.Response[ListRecurrenceRulesResponse], error)
	CreateTransaction(context.Context, *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	CheckDuplicate(context.Context, *connect.Request[CheckDuplicateRequest]) (*connect.Response[CheckDuplicateResponse], error)
	AutoBudget(context.Context, *connect.Request[AutoBudgetRequest]) (*connect.Response[AutoBudgetResponse], error)
	SuggestBudget(context.Context, *connect.Request[SuggestBudgetRequest]) (*connect.Response[SuggestBudgetResponse], error)
	GenerateInsights(context.Context, *connect.Request[GenerateInsightsRequest]) (*connect.Response[GenerateInsightsResponse], error)
	ListCategories(context.Context, *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error)
	UpsertCategory(context.Context, *connect.Request[UpsertCategoryRequest]) (*connect.Response[UpsertCategoryResponse], error)
}

// NewAutomationServiceHandler builds an HTTP handler for svc and returns the
// path to mount it on.
func NewAutomationServiceHandler(svc AutomationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ProcessRecurringTransactionsProcedure, connect.NewUnaryHandler(ProcessRecurringTransactionsProcedure, svc.ProcessRecurringTransactions, opts...))
	mux.Handle(CreateRecurrenceRuleProcedure, connect.NewUnaryHandler(CreateRecurrenceRuleProcedure, svc.CreateRecurrenceRule, opts...))
	mux.Handle(ListRecurrenceRulesProcedure, connect.NewUnaryHandler(ListRecurrenceRulesProcedure, svc.ListRecurrenceRules, opts...))
	mux.Handle(CreateTransactionProcedure, connect.NewUnaryHandler(CreateTransactionProcedure, svc.CreateTransaction, opts...))
	mux.Handle(ListTransactionsProcedure, connect.NewUnaryHandler(ListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(CheckDuplicateProcedure, connect.NewUnaryHandler(CheckDuplicateProcedure, svc.CheckDuplicate, opts...))
	mux.Handle(AutoBudgetProcedure, connect.NewUnaryHandler(AutoBudgetProcedure, svc.AutoBudget, opts...))
	mux.Handle(SuggestBudgetProcedure, connect.NewUnaryHandler(SuggestBudgetProcedure, svc.SuggestBudget, opts...))
	mux.Handle(GenerateInsightsProcedure, connect.NewUnaryHandler(GenerateInsightsProcedure, svc.GenerateInsights, opts...))
	mux.Handle(ListCategoriesProcedure, connect.NewUnaryHandler(ListCategoriesProcedure, svc.ListCategories, opts...))
	mux.Handle(UpsertCategoryProcedure, connect.NewUnaryHandler(UpsertCategoryProcedure, svc.UpsertCategory, opts...))

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/"+ServiceName+"/") {
			http.NotFound(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// NewClient creates a unary Connect client for one procedure using the JSON codec.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opts...)
}
