package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
)

// LoginResult is the /login success payload.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

// Login authenticates and returns the issued token and identity. It
// never installs the token itself; that is the session layer's call.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	_, err := c.do(ctx, http.MethodPost, "/login", credentialsBody{username, password}, &out)
	if err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// Register creates a new account. No session state is involved.
func (c *Client) Register(ctx context.Context, username, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/register", credentialsBody{username, password}, nil)
	return err
}

// Expenses fetches the full expense list for the current user.
func (c *Client) Expenses(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	if _, err := c.do(ctx, http.MethodGet, "/get-expenses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddExpense posts a new expense. The backend signals acceptance with
// 201 specifically; any other 2xx is treated as a contract violation.
func (c *Client) AddExpense(ctx context.Context, d core.Draft) error {
	body := addExpenseBody{
		Amount:   d.Amount.InexactFloat64(),
		Category: d.Category,
		Note:     d.Note,
		Date:     d.Date.UTC().Format(time.RFC3339),
	}
	status, err := c.do(ctx, http.MethodPost, "/add-expense", body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("add expense: expected 201, got %d", status)
	}
	return nil
}

// Analytics fetches the server-side aggregates.
func (c *Client) Analytics(ctx context.Context) (core.AnalyticsReport, error) {
	var out analyticsBody
	if _, err := c.do(ctx, http.MethodGet, "/analytics", nil, &out); err != nil {
		return core.AnalyticsReport{}, err
	}
	return out.report(), nil
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type addExpenseBody struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Date     string  `json:"date"`
}

// analyticsBody mirrors the aggregation pipeline output: category
// totals key the category name under _id, monthly totals key a
// {month, year} document under _id.
type analyticsBody struct {
	CategoryTotals []core.CategoryTotal `json:"category_totals"`
	MonthlyTotals  []monthlyTotalBody   `json:"monthly_totals"`
}

type monthlyTotalBody struct {
	ID struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	} `json:"_id"`
	Total decimal.Decimal `json:"total"`
}

func (b analyticsBody) report() core.AnalyticsReport {
	report := core.AnalyticsReport{CategoryTotals: b.CategoryTotals}
	for _, mt := range b.MonthlyTotals {
		report.MonthlyTotals = append(report.MonthlyTotals, core.MonthlyTotal{
			Year:  mt.ID.Year,
			Month: mt.ID.Month,
			Total: mt.Total,
		})
	}
	return report
}
