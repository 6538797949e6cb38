package notification

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

type recordingRule struct {
	mu     sync.Mutex
	name   string
	events []domain.StockTransition
	err    error
	panics bool
}

func (r *recordingRule) Name() string { return r.name }

func (r *recordingRule) OnTransition(event domain.StockTransition) error {
	if r.panics {
		panic("rule exploded")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingRule) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func transition(previous, next, minimum int) domain.StockTransition {
	return domain.StockTransition{
		ItemID:           1,
		SKU:              "MED-AMOX-AB12CD",
		ItemName:         "Amoxicillin",
		PreviousQuantity: previous,
		NewQuantity:      next,
		MinimumStock:     minimum,
		Actor:            "alex",
		Timestamp:        time.Now(),
	}
}

func TestCenter_NotifiesAllRules(t *testing.T) {
	center := NewCenter()
	first := &recordingRule{name: "first"}
	second := &recordingRule{name: "second"}
	center.Register(first)
	center.Register(second)

	center.Notify(transition(20, 15, 10))

	if first.count() != 1 || second.count() != 1 {
		t.Errorf("expected both rules notified, got %d/%d", first.count(), second.count())
	}
}

func TestCenter_RegisterReplacesByName(t *testing.T) {
	center := NewCenter()
	old := &recordingRule{name: "dup"}
	replacement := &recordingRule{name: "dup"}
	center.Register(old)
	center.Register(replacement)

	center.Notify(transition(20, 15, 10))

	if old.count() != 0 {
		t.Error("replaced rule should no longer be notified")
	}
	if replacement.count() != 1 {
		t.Error("replacement rule should be notified")
	}
}

func TestCenter_Unregister(t *testing.T) {
	center := NewCenter()
	rule := &recordingRule{name: "gone"}
	center.Register(rule)
	center.Unregister("gone")

	center.Notify(transition(20, 15, 10))

	if rule.count() != 0 {
		t.Error("unregistered rule should not be notified")
	}
}

func TestCenter_RuleFailureDoesNotStopOthers(t *testing.T) {
	center := NewCenter()
	failing := &recordingRule{name: "failing", err: errors.New("smtp down")}
	panicking := &recordingRule{name: "panicking", panics: true}
	healthy := &recordingRule{name: "healthy"}
	center.Register(failing)
	center.Register(panicking)
	center.Register(healthy)

	center.Notify(transition(20, 15, 10))

	if healthy.count() != 1 {
		t.Error("healthy rule must run despite earlier failures")
	}
	if len(center.Recent(0)) != 1 {
		t.Error("transition must be recorded despite rule failures")
	}
}

func TestCenter_RecentBounded(t *testing.T) {
	center := NewCenter()
	for i := 0; i < defaultHistorySize+10; i++ {
		center.Notify(transition(i, i+1, 10))
	}

	recent := center.Recent(0)
	if len(recent) != defaultHistorySize {
		t.Fatalf("expected history capped at %d, got %d", defaultHistorySize, len(recent))
	}
	// Newest last
	last := recent[len(recent)-1]
	if last.NewQuantity != defaultHistorySize+10 {
		t.Errorf("expected newest transition last, got %d", last.NewQuantity)
	}

	limited := center.Recent(5)
	if len(limited) != 5 {
		t.Errorf("expected 5 entries, got %d", len(limited))
	}
}

type capturingSink struct {
	mu     sync.Mutex
	alerts []Alert
}

func (s *capturingSink) record(alert Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
}

func (s *capturingSink) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.alerts))
	for i, alert := range s.alerts {
		out[i] = alert.Kind
	}
	return out
}

func TestLowStockRule_EdgeTriggered(t *testing.T) {
	sink := &capturingSink{}
	rule := NewLowStockRule(sink.record)

	steps := []struct {
		previous, next int
		wantKind       string
	}{
		{20, 15, ""},              // stays above
		{15, 10, AlertLowStock},   // crosses down to the threshold
		{10, 5, ""},               // stays below, no re-alert
		{5, 25, AlertStockRestored}, // crosses back up
		{25, 30, ""},              // stays above
	}

	for i, step := range steps {
		before := len(sink.kinds())
		if err := rule.OnTransition(transition(step.previous, step.next, 10)); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		kinds := sink.kinds()
		fired := len(kinds) - before
		if step.wantKind == "" && fired != 0 {
			t.Errorf("step %d (%d->%d): unexpected alert %s", i, step.previous, step.next, kinds[len(kinds)-1])
		}
		if step.wantKind != "" {
			if fired != 1 {
				t.Errorf("step %d (%d->%d): expected exactly one alert, got %d", i, step.previous, step.next, fired)
			} else if kinds[len(kinds)-1] != step.wantKind {
				t.Errorf("step %d: expected %s, got %s", i, step.wantKind, kinds[len(kinds)-1])
			}
		}
	}
}

func TestExpiryRule_Window(t *testing.T) {
	sink := &capturingSink{}
	rule := NewExpiryRule(30, sink.record)

	noExpiry := transition(20, 15, 10)
	if err := rule.OnTransition(noExpiry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.kinds()) != 0 {
		t.Error("item without expiry date should not alert")
	}

	soon := time.Now().AddDate(0, 0, 7)
	inside := transition(20, 15, 10)
	inside.ExpiryDate = &soon
	rule.OnTransition(inside)
	if got := sink.kinds(); len(got) != 1 || got[0] != AlertExpiringSoon {
		t.Errorf("expected expiring_soon alert, got %v", got)
	}

	far := time.Now().AddDate(0, 0, 90)
	outside := transition(20, 15, 10)
	outside.ExpiryDate = &far
	rule.OnTransition(outside)
	if len(sink.kinds()) != 1 {
		t.Error("expiry outside the window should not alert")
	}

	past := time.Now().AddDate(0, 0, -5)
	expired := transition(20, 15, 10)
	expired.ExpiryDate = &past
	rule.OnTransition(expired)
	if len(sink.kinds()) != 1 {
		t.Error("already-expired items are not expiring soon")
	}
}

func TestExpiryRule_DefaultWindow(t *testing.T) {
	rule := NewExpiryRule(0, func(Alert) {})
	if rule.WindowDays != DefaultExpiryWindowDays {
		t.Errorf("expected default window %d, got %d", DefaultExpiryWindowDays, rule.WindowDays)
	}
}

func TestCenter_ConcurrentNotify(t *testing.T) {
	center := NewCenter()
	rule := &recordingRule{name: "concurrent"}
	center.Register(rule)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				center.Notify(transition(n, n+1, 10))
			}
		}(i)
	}
	wg.Wait()

	if rule.count() != 200 {
		t.Errorf("expected 200 notifications, got %d", rule.count())
	}
}
