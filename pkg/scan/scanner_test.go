package scan

import (
	"context"
	"testing"
	"time"

	"github.com/currantlabs/ble"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeAdvertisement struct {
	address string
	rssi    int
	name    string
	data    []byte
}

func (a fakeAdvertisement) LocalName() string              { return a.name }
func (a fakeAdvertisement) ManufacturerData() []byte       { return a.data }
func (a fakeAdvertisement) ServiceData() []ble.ServiceData { return nil }
func (a fakeAdvertisement) Services() []ble.UUID           { return nil }
func (a fakeAdvertisement) OverflowService() []ble.UUID    { return nil }
func (a fakeAdvertisement) TxPowerLevel() int              { return 0 }
func (a fakeAdvertisement) Connectable() bool              { return false }
func (a fakeAdvertisement) SolicitedService() []ble.UUID   { return nil }
func (a fakeAdvertisement) RSSI() int                      { return a.rssi }
func (a fakeAdvertisement) Address() ble.Addr              { return ble.NewAddr(a.address) }

func beaconData() []byte {
	return ibeacon.Encode(uuid.MustParse("e2c56db5-dffb-48d2-b060-d0f5a71096e0"), 1, 2, -59)
}

func newTestScanner() (*Scanner, *clock.Mock) {
	mc := clock.NewMock(epoch)
	cfg := DefaultConfig()
	cfg.Clock = mc
	return New(cfg), mc
}

func TestHandleFiltered(t *testing.T) {
	sc, _ := newTestScanner()

	var got []tracker.Observation
	sc.OnObservation(func(obs tracker.Observation) { got = append(got, obs) })

	sc.HandleFiltered(fakeAdvertisement{address: "aa:bb:cc:dd:ee:01", rssi: -70, data: []byte{0x06, 0x00, 0x01}})
	assert.Empty(t, got, "non-iBeacon advertisement passed the filter")

	sc.HandleFiltered(fakeAdvertisement{address: "aa:bb:cc:dd:ee:01", rssi: -70, name: "tag", data: beaconData()})
	require.Len(t, got, 1)
	assert.Equal(t, tracker.Observation{
		Address:          "AA:BB:CC:DD:EE:01",
		RSSI:             -70,
		Name:             "tag",
		ManufacturerData: beaconData(),
		ObservedAt:       epoch,
	}, got[0])

	last, ok := sc.LastObservation("AA:BB:CC:DD:EE:01")
	require.True(t, ok)
	assert.Equal(t, got[0], last)
}

func TestObservationsSorted(t *testing.T) {
	sc, _ := newTestScanner()
	sc.Ingest(tracker.Observation{Address: "B", RSSI: -1})
	sc.Ingest(tracker.Observation{Address: "A", RSSI: -2})
	sc.Ingest(tracker.Observation{Address: "B", RSSI: -3})

	all := sc.Observations()
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Address)
	assert.Equal(t, -3, all[1].RSSI)
	assert.Equal(t, epoch, all[1].ObservedAt, "zero receive time is stamped")
}

func TestWatchFiresOnceAfterTimeout(t *testing.T) {
	sc, mc := newTestScanner()
	sc.Ingest(tracker.Observation{Address: "A", ObservedAt: epoch})

	var fired []string
	sc.TrackUnavailable("A", func(address string) { fired = append(fired, address) })

	mc.Advance(DefaultUnavailableTimeout)
	sc.CheckUnavailable()
	assert.Empty(t, fired, "not expired at exactly the timeout")

	mc.Advance(time.Second)
	sc.CheckUnavailable()
	assert.Equal(t, []string{"A"}, fired)

	mc.Advance(time.Hour)
	sc.CheckUnavailable()
	assert.Equal(t, []string{"A"}, fired, "watches are one-shot")
}

func TestWatchPostponedByObservation(t *testing.T) {
	sc, mc := newTestScanner()
	sc.Ingest(tracker.Observation{Address: "A"})

	fired := 0
	sc.TrackUnavailable("A", func(string) { fired++ })

	mc.Advance(2 * time.Minute)
	sc.Ingest(tracker.Observation{Address: "A"})
	mc.Advance(2 * time.Minute)
	sc.CheckUnavailable()
	assert.Zero(t, fired)

	mc.Advance(2 * time.Minute)
	sc.CheckUnavailable()
	assert.Equal(t, 1, fired)
}

func TestWatchWithoutObservation(t *testing.T) {
	sc, mc := newTestScanner()

	fired := 0
	sc.TrackUnavailable("A", func(string) { fired++ })

	mc.Advance(DefaultUnavailableTimeout + time.Second)
	sc.CheckUnavailable()
	assert.Equal(t, 1, fired, "silence counts from registration")
}

func TestCancelledWatchDoesNotFire(t *testing.T) {
	sc, mc := newTestScanner()

	fired := 0
	cancel := sc.TrackUnavailable("A", func(string) { fired++ })
	cancel()
	cancel()

	mc.Advance(time.Hour)
	sc.CheckUnavailable()
	assert.Zero(t, fired)
}

func TestStaleObservationsForgotten(t *testing.T) {
	sc, mc := newTestScanner()
	sc.Ingest(tracker.Observation{Address: "A"})

	mc.Advance(DefaultUnavailableTimeout + time.Second)
	sc.Ingest(tracker.Observation{Address: "B"})
	sc.CheckUnavailable()

	_, ok := sc.LastObservation("A")
	assert.False(t, ok)
	_, ok = sc.LastObservation("B")
	assert.True(t, ok)
}

func TestRun(t *testing.T) {
	sc, mc := newTestScanner()

	fired := make(chan string, 1)
	sc.TrackUnavailable("A", func(address string) { fired <- address })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		mc.Advance(DefaultCheckInterval)
		select {
		case address := <-fired:
			return address == "A"
		default:
			return false
		}
	}, 5*time.Second, time.Millisecond)

	cancel()
	<-done
}
