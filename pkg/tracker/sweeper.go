package tracker

import (
	"context"
	"maps"
	"slices"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
)

func (t *Tracker) runSweeper(ctx context.Context, ticker clock.Ticker, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C():
			t.Sweep()
		}
	}
}

// Sweep marks silent random-MAC groups unavailable and pushes RSSI changes
// of fixed-MAC devices. It runs every update interval once started and may
// also be called directly.
func (t *Tracker) Sweep() {
	t.dispatch(t.locked(func() []Event {
		events := t.checkUnavailableRandomGroups()
		return append(events, t.refreshRSSI()...)
	}))
}

// checkUnavailableRandomGroups reports random-MAC groups that have not been
// seen for the unavailability timeout. Fixed-MAC addresses are covered by
// the source's watches instead.
func (t *Tracker) checkUnavailableRandomGroups() []Event {
	now := t.clock.Now()

	var gone []string
	for groupID := range t.randomGroups {
		if t.unavailableGroups.has(groupID) {
			continue
		}
		obs, ok := t.lastSeenByGroup[groupID]
		if !ok {
			continue
		}
		if now.Sub(obs.ObservedAt) > t.unavailableTimeout {
			gone = append(gone, groupID)
		}
	}
	slices.Sort(gone)

	events := make([]Event, 0, len(gone))
	for _, groupID := range gone {
		t.unavailableGroups[groupID] = struct{}{}
		events = append(events, Event{Kind: EventUnavailable, ID: groupID})
	}
	if len(gone) > 0 {
		t.debugLog("random MAC groups unavailable", "group_ids", gone)
	}
	return events
}

// refreshRSSI emits seen events for devices whose latest RSSI differs from
// the cached one. The source does not report RSSI-only changes as new
// advertisements, so distance estimates would otherwise go stale.
func (t *Tracker) refreshRSSI() []Event {
	var events []Event
	for _, uniqueID := range slices.Sorted(maps.Keys(t.lastRSSI)) {
		rssi := t.lastRSSI[uniqueID]
		obs, ok := t.source.LastObservation(AddressFromUniqueID(uniqueID))
		if !ok || obs.RSSI == rssi {
			continue
		}
		adv, ok := t.parser.Parse(obs)
		if !ok {
			continue
		}
		events = append(events, Event{Kind: EventSeen, ID: uniqueID, Advertisement: adv})
	}
	return events
}
