package rpc

import (
	"context"

	"connectrpc.com/connect"
)

// Client calls every AutomationService procedure on one base URL.
type Client struct {
	processRecurring *connect.Client[ProcessRecurringTransactionsRequest, ProcessRecurringTransactionsResponse]
	createRule       *connect.Client[CreateRecurrenceRuleRequest, CreateRecurrenceRuleResponse]
	listRules        *connect.Client[ListRecurrenceRulesRequest, ListRecurrenceRulesResponse]
	createTxn        *connect.Client[CreateTransactionRequest, CreateTransactionResponse]
	listTxns         *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	checkDuplicate   *connect.Client[CheckDuplicateRequest, CheckDuplicateResponse]
	autoBudget       *connect.Client[AutoBudgetRequest, AutoBudgetResponse]
	suggestBudget    *connect.Client[SuggestBudgetRequest, SuggestBudgetResponse]
	generateInsights *connect.Client[GenerateInsightsRequest, GenerateInsightsResponse]
	listCategories   *connect.Client[ListCategoriesRequest, ListCategoriesResponse]
	upsertCategory   *connect.Client[UpsertCategoryRequest, UpsertCategoryResponse]
}

var _ AutomationServiceHandler = (*Client)(nil)

// NewAutomationServiceClient builds a Client for the service at baseURL.
func NewAutomationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		processRecurring: NewClient[ProcessRecurringTransactionsRequest, ProcessRecurringTransactionsResponse](httpClient, baseURL, ProcessRecurringTransactionsProcedure, opts...),
		createRule:       NewClient[CreateRecurrenceRuleRequest, CreateRecurrenceRuleResponse](httpClient, baseURL, CreateRecurrenceRuleProcedure, opts...),
		listRules:        NewClient[ListRecurrenceRulesRequest, ListRecurrenceRulesResponse](httpClient, baseURL, ListRecurrenceRulesProcedure, opts...),
		createTxn:        NewClient[CreateTransactionRequest, CreateTransactionResponse](httpClient, baseURL, CreateTransactionProcedure, opts...),
		listTxns:         NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL, ListTransactionsProcedure, opts...),
		checkDuplicate:   NewClient[CheckDuplicateRequest, CheckDuplicateResponse](httpClient, baseURL, CheckDuplicateProcedure, opts...),
		autoBudget:       NewClient[AutoBudgetRequest, AutoBudgetResponse](httpClient, baseURL, AutoBudgetProcedure, opts...),
		suggestBudget:    NewClient[SuggestBudgetRequest, SuggestBudgetResponse](httpClient, baseURL, SuggestBudgetProcedure, opts...),
		generateInsights: NewClient[GenerateInsightsRequest, GenerateInsightsResponse](httpClient, baseURL, GenerateInsightsProcedure, opts...),
		listCategories:   NewClient[ListCategoriesRequest, ListCategoriesResponse](httpClient, baseURL, ListCategoriesProcedure, opts...),
		upsertCategory:   NewClient[UpsertCategoryRequest, UpsertCategoryResponse](httpClient, baseURL, UpsertCategoryProcedure, opts...),
	}
}

func (c *Client) ProcessRecurringTransactions(ctx context.Context, req *connect.Request[ProcessRecurringTransactionsRequest]) (*connect.Response[ProcessRecurringTransactionsResponse], error) {
	return c.processRecurring.CallUnary(ctx, req)
}

func (c *Client) CreateRecurrenceRule(ctx context.Context, req *connect.Request[CreateRecurrenceRuleRequest]) (*connect.Response[CreateRecurrenceRuleResponse], error) {
	return c.createRule.CallUnary(ctx, req)
}

func (c *Client) ListRecurrenceRules(ctx context.Context, req *connect.Request[ListRecurrenceRulesRequest]) (*connect.Response[ListRecurrenceRulesResponse], error) {
	return c.listRules.CallUnary(ctx, req)
}

func (c *Client) CreateTransaction(ctx context.Context, req *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error) {
	return c.createTxn.CallUnary(ctx, req)
}

func (c *Client) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTxns.CallUnary(ctx, req)
}

func (c *Client) CheckDuplicate(ctx context.Context, req *connect.Request[CheckDuplicateRequest]) (*connect.Response[CheckDuplicateResponse], error) {
	return c.checkDuplicate.CallUnary(ctx, req)
}

func (c *Client) AutoBudget(ctx context.Context, req *connect.Request[AutoBudgetRequest]) (*connect.Response[AutoBudgetResponse], error) {
	return c.autoBudget.CallUnary(ctx, req)
}

func (c *Client) SuggestBudget(ctx context.Context, req *connect.Request[SuggestBudgetRequest]) (*connect.Response[SuggestBudgetResponse], error) {
	return c.suggestBudget.CallUnary(ctx, req)
}

func (c *Client) GenerateInsights(ctx context.Context, req *connect.Request[GenerateInsightsRequest]) (*connect.Response[GenerateInsightsResponse], error) {
	return c.generateInsights.CallUnary(ctx, req)
}

func (c *Client) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *Client) UpsertCategory(ctx context.Context, req *connect.Request[UpsertCategoryRequest]) (*connect.Response[UpsertCategoryResponse], error) {
	return c.upsertCategory.CallUnary(ctx, req)
}
