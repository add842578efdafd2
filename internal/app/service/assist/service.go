package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/app/service/spending"
	"github.com/subtrackr/subtrackr/internal/platform/ai"
	"github.com/subtrackr/subtrackr/pkg/config"
	"github.com/subtrackr/subtrackr/pkg/logctx"
	"github.com/subtrackr/subtrackr/pkg/types"
)

// ErrUnparsable means the model reply could not be turned into a
// usable subscription.
var ErrUnparsable = errors.New("could not extract subscription details")

type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
	ai  ai.Completer
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, completer ai.Completer) *Service {
	return &Service{cfg: cfg, db: db, log: log, ai: completer}
}

// ParsedSubscription is the structured result of free-text extraction.
// Fields the model could not determine come back empty and the client
// pre-fills a form with whatever was recognized.
type ParsedSubscription struct {
	Name            string          `json:"name"`
	Cost            decimal.Decimal `json:"cost"`
	BillingCycle    string          `json:"billing_cycle"`
	NextBillingDate string          `json:"next_billing_date"`
	Category        string          `json:"category"`
}

const parseSystemPrompt = `You extract subscription details from free text.
Reply with a single JSON object and nothing else, no markdown fences.
Keys: "name" (string), "cost" (number), "billing_cycle" ("monthly" or "yearly"),
"next_billing_date" ("YYYY-MM-DD"), "category" (string).
Use an empty string for anything you cannot determine, and 0 for an unknown cost.
Resolve relative dates ("next friday", "on the 5th") against today's date given in the prompt.`

// ParseSubscription asks the model to turn free text ("netflix 15.99 a
// month starting friday") into structured fields.
func (s *Service) ParseSubscription(ctx context.Context, text string) (*ParsedSubscription, error) {
	prompt := fmt.Sprintf("Today is %s.\n\nText: %s", billing.FormatLocalDate(billing.Today()), text)
	raw, err := s.ai.Complete(ctx, parseSystemPrompt, prompt)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("model call failed for parse", "err", err)
		return nil, ErrUnparsable
	}

	var parsed ParsedSubscription
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("model reply was not valid json", "reply", raw, "err", err)
		return nil, ErrUnparsable
	}

	parsed.Name = strings.TrimSpace(parsed.Name)
	if parsed.BillingCycle != "" && !types.BillingCycle(parsed.BillingCycle).Valid() {
		parsed.BillingCycle = ""
	}
	if parsed.NextBillingDate != "" {
		if _, err := billing.ParseLocalDate(parsed.NextBillingDate); err != nil {
			parsed.NextBillingDate = ""
		}
	}
	if parsed.Name == "" && parsed.Cost.IsZero() {
		return nil, ErrUnparsable
	}
	return &parsed, nil
}

// BudgetSuggestion is a recommended pair of budgets with a short
// rationale. Source is "model" or "fallback".
type BudgetSuggestion struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	YearlyBudget  decimal.Decimal `json:"yearly_budget"`
	Advice        string          `json:"advice"`
	Source        string          `json:"source"`
}

const suggestSystemPrompt = `You recommend spending budgets for someone tracking their subscriptions.
Reply with a single JSON object and nothing else, no markdown fences.
Keys: "monthly_budget" (number), "yearly_budget" (number), "advice" (one or two sentences, plain text).
The budgets should leave modest headroom above current spending without encouraging overspend.`

// SuggestBudget recommends budgets from the current spending summary.
// A model failure degrades to a deterministic rule of thumb instead of
// an error, and a model reply with implausible yearly/monthly
// proportions gets its yearly figure recomputed.
func (s *Service) SuggestBudget(ctx context.Context, summary *spending.Summary) *BudgetSuggestion {
	prompt := fmt.Sprintf(
		"Monthly-equivalent spend: %s.\nAnnualized spend: %s.\nSpend by category: %s",
		summary.TotalMonthly.StringFixed(2), summary.TotalYearly.StringFixed(2), categoryLine(summary),
	)

	raw, err := s.ai.Complete(ctx, suggestSystemPrompt, prompt)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("model call failed for budget suggestion, using fallback", "err", err)
		return fallbackSuggestion(summary)
	}

	var reply struct {
		MonthlyBudget decimal.Decimal `json:"monthly_budget"`
		YearlyBudget  decimal.Decimal `json:"yearly_budget"`
		Advice        string          `json:"advice"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &reply); err != nil || !reply.MonthlyBudget.IsPositive() {
		logctx.FromCtx(ctx, s.log).Warnw("unusable budget suggestion reply, using fallback", "reply", raw)
		return fallbackSuggestion(summary)
	}

	monthly := reply.MonthlyBudget.Round(2)
	yearly := reply.YearlyBudget.Round(2)
	// sanity proportion: a yearly budget far off 12x monthly is a model
	// slip, not a recommendation
	low := monthly.Mul(decimal.NewFromInt(10))
	high := monthly.Mul(decimal.NewFromInt(14))
	if yearly.LessThan(low) || yearly.GreaterThan(high) {
		yearly = derivedYearly(monthly)
	}

	return &BudgetSuggestion{
		MonthlyBudget: monthly,
		YearlyBudget:  yearly,
		Advice:        strings.TrimSpace(reply.Advice),
		Source:        "model",
	}
}

func fallbackSuggestion(summary *spending.Summary) *BudgetSuggestion {
	monthly := summary.TotalMonthly.Mul(decimal.NewFromFloat(1.2)).Round(2)
	return &BudgetSuggestion{
		MonthlyBudget: monthly,
		YearlyBudget:  derivedYearly(monthly),
		Advice:        "Based on your current spending with twenty percent headroom.",
		Source:        "fallback",
	}
}

func derivedYearly(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(decimal.NewFromInt(12)).Mul(decimal.NewFromFloat(1.15)).Round(2)
}

func categoryLine(summary *spending.Summary) string {
	if len(summary.Categories) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(summary.Categories))
	for _, c := range summary.Categories {
		parts = append(parts, fmt.Sprintf("%s %s", c.Category, c.Monthly.StringFixed(2)))
	}
	return strings.Join(parts, ", ")
}

// stripFences tolerates models that wrap JSON in a markdown code block
// despite instructions.
func stripFences(raw string) string {
	out := strings.TrimSpace(raw)
	if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```json")
		out = strings.TrimPrefix(out, "```")
		out = strings.TrimSuffix(out, "```")
		out = strings.TrimSpace(out)
	}
	return out
}
