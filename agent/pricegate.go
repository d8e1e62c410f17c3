package agent

import (
	"time"

	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/utils"
)

const (
	priceMentionKey    = "last_price_mention"
	priceMentionWindow = 24 * time.Hour
)

// PriceGate limits price-action mentions to one per day. The timestamp lives
// in the settings table so the throttle survives restarts.
type PriceGate struct {
	store *store.Store
	now   func() time.Time
}

// NewPriceGate wraps the datastore.
func NewPriceGate(st *store.Store) *PriceGate {
	return &PriceGate{store: st, now: time.Now}
}

// CanMentionPrice reports whether a price mention is allowed and, when it is
// not, how long until the next one.
func (p *PriceGate) CanMentionPrice() (bool, time.Duration) {
	raw, err := p.store.Setting(priceMentionKey)
	if err != nil || raw == "" {
		return true, 0
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return true, 0
	}
	elapsed := p.now().Sub(last)
	if elapsed >= priceMentionWindow {
		return true, 0
	}
	return false, priceMentionWindow - elapsed
}

// RecordPriceMention stamps the throttle.
func (p *PriceGate) RecordPriceMention() {
	if err := p.store.SetSetting(priceMentionKey, p.now().Format(time.RFC3339)); err != nil {
		utils.Sugar.Warnw("failed to record price mention", "err", err)
	}
}
