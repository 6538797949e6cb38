package notification

import (
	"fmt"
	"sync"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/pkg/logger"
)

const defaultHistorySize = 50

// Rule decides whether a stock transition warrants an alert
type Rule interface {
	Name() string
	OnTransition(event domain.StockTransition) error
}

// Center is the observer registry informed of every quantity transition.
// Notification is best-effort: a failing or panicking rule is logged and
// never allowed to abort the mutation that already happened.
type Center struct {
	mu          sync.RWMutex
	rules       []Rule
	recent      []domain.StockTransition
	historySize int
}

// NewCenter creates an empty notification center
func NewCenter() *Center {
	return &Center{historySize: defaultHistorySize}
}

// Register adds a rule. Registering the same rule name twice replaces the
// earlier registration.
func (c *Center) Register(rule Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.rules {
		if existing.Name() == rule.Name() {
			c.rules[i] = rule
			return
		}
	}
	c.rules = append(c.rules, rule)
	logger.Logger.Info().
		Str("rule", rule.Name()).
		Msg("Notification rule registered")
}

// Unregister removes a rule by name
func (c *Center) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rule := range c.rules {
		if rule.Name() == name {
			c.rules = append(c.rules[:i], c.rules[i+1:]...)
			return
		}
	}
}

// Notify invokes every registered rule with the transition event
func (c *Center) Notify(event domain.StockTransition) {
	c.mu.RLock()
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	c.mu.RUnlock()

	for _, rule := range rules {
		if err := c.invoke(rule, event); err != nil {
			logger.Logger.Error().
				Err(err).
				Str("rule", rule.Name()).
				Str("sku", event.SKU).
				Msg("Notification rule failed")
		}
	}

	c.mu.Lock()
	c.recent = append(c.recent, event)
	if len(c.recent) > c.historySize {
		c.recent = c.recent[len(c.recent)-c.historySize:]
	}
	c.mu.Unlock()
}

// invoke shields Notify from rule panics
func (c *Center) invoke(rule Rule, event domain.StockTransition) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule panicked: %v", r)
		}
	}()
	return rule.OnTransition(event)
}

// Recent returns up to limit of the most recent transitions, newest last
func (c *Center) Recent(limit int) []domain.StockTransition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit <= 0 || limit > len(c.recent) {
		limit = len(c.recent)
	}
	out := make([]domain.StockTransition, limit)
	copy(out, c.recent[len(c.recent)-limit:])
	return out
}
