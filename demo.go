package accounts

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DemoDailyLimit is the number of words anonymous demo use may consume per
// calendar day.
const DemoDailyLimit = 5000

// demoDateLayout matches the date keys the original surface wrote, e.g.
// "Tue Jul 08 2025".
const demoDateLayout = "Mon Jan 02 2006"

// DemoQuota tracks anonymous word consumption per local calendar date,
// independent of any account. The gate is advisory: callers check Remaining
// before generating, and the tracker never refuses a write that pushes a day
// past the limit.
type DemoQuota struct {
	store        Store
	logger       Logger
	now          func() time.Time
	historyLimit int
}

// DemoQuotaOption customizes tracker construction.
type DemoQuotaOption func(*DemoQuota)

// WithDemoClock injects a custom clock (useful for tests).
func WithDemoClock(clock func() time.Time) DemoQuotaOption {
	return func(q *DemoQuota) {
		if clock != nil {
			q.now = clock
		}
	}
}

// WithDemoLogger overrides the tracker logger.
func WithDemoLogger(logger Logger) DemoQuotaOption {
	return func(q *DemoQuota) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithHistoryLimit caps the record to the newest n dates, pruned on write.
// Zero keeps the full history, matching the original behavior.
func WithHistoryLimit(n int) DemoQuotaOption {
	return func(q *DemoQuota) {
		if n > 0 {
			q.historyLimit = n
		}
	}
}

// NewDemoQuota returns a tracker persisting through store.
func NewDemoQuota(store Store, opts ...DemoQuotaOption) *DemoQuota {
	q := &DemoQuota{
		store:  store,
		logger: defLogger{},
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}

	return q
}

// DateKey formats t as a tracker date key.
func DateKey(t time.Time) string {
	return t.Format(demoDateLayout)
}

// Today returns the tracker key for the current local date.
func (q *DemoQuota) Today() string {
	return DateKey(q.now())
}

// Remaining reports how many demo words are left for date, clamped at zero.
// An unseen date has the full limit remaining. Malformed stored values count
// as zero and are healed in place.
func (q *DemoQuota) Remaining(ctx context.Context, date string) (int, error) {
	usage, healed, err := q.load(ctx)
	if err != nil {
		return 0, err
	}

	if healed {
		if err := saveCollection(ctx, q.store, CollectionDemoUsage, usage); err != nil {
			return 0, err
		}
	}

	remaining := DemoDailyLimit - usage[date]
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Consumed reports the words recorded against date, zero for unseen dates.
func (q *DemoQuota) Consumed(ctx context.Context, date string) (int, error) {
	usage, _, err := q.load(ctx)
	if err != nil {
		return 0, err
	}
	return usage[date], nil
}

// Record adds words to the date's counter, creating the record if absent.
// The write is never refused, even past the limit; only Remaining reflects
// the overrun by clamping to zero.
func (q *DemoQuota) Record(ctx context.Context, date string, words int) error {
	if words < 0 {
		return goerrors.New("word count must not be negative", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"words": words})
	}

	usage, _, err := q.load(ctx)
	if err != nil {
		return err
	}

	usage[date] += words
	q.prune(usage)

	return saveCollection(ctx, q.store, CollectionDemoUsage, usage)
}

// load parses the demo-usage collection tolerantly: each date value is read
// on its own, and values that are not non-negative integers heal to zero.
// Store failures propagate; only decode failures self-heal.
func (q *DemoQuota) load(ctx context.Context) (map[string]int, bool, error) {
	doc, err := q.store.Get(ctx, CollectionDemoUsage)
	if err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read demo usage")
	}

	usage := map[string]int{}
	if len(doc) == 0 {
		return usage, false, nil
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(doc, &raw); err != nil {
		q.logger.Warn("demo usage document is unreadable, resetting: %v", err)
		return usage, true, nil
	}

	healed := false
	for date, value := range raw {
		var words int
		if err := json.Unmarshal(value, &words); err != nil || words < 0 {
			q.logger.Warn("%v", ErrMalformedQuota.WithMetadata(map[string]any{"date": date}))
			usage[date] = 0
			healed = true
			continue
		}
		usage[date] = words
	}

	return usage, healed, nil
}

// prune drops the oldest dates beyond the configured history limit. Keys
// that fail to parse sort as oldest and go first.
func (q *DemoQuota) prune(usage map[string]int) {
	if q.historyLimit <= 0 || len(usage) <= q.historyLimit {
		return
	}

	dates := make([]string, 0, len(usage))
	for date := range usage {
		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool {
		ti, _ := time.Parse(demoDateLayout, dates[i])
		tj, _ := time.Parse(demoDateLayout, dates[j])
		return ti.Before(tj)
	})

	for _, date := range dates[:len(dates)-q.historyLimit] {
		delete(usage, date)
	}
}
