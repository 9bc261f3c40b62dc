package outbox

import (
	"sync"
	"testing"
	"time"
)

func TestRelayHealthStateConcurrentAccess(t *testing.T) {
	relay := NewRelay(nil, "", nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				relay.markProcessed()
				relay.markUnhealthy()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				relay.IsHealthy()
				relay.IsReady()
			}
		}()
	}
	wg.Wait()

	relay.markProcessed()
	if !relay.IsHealthy() || !relay.IsReady() {
		t.Errorf("relay must report healthy after a successful pass")
	}
}

func TestRelayReadinessGoesStale(t *testing.T) {
	relay := NewRelay(nil, "", nil)

	relay.mu.Lock()
	relay.lastProcessed = time.Now().Add(-healthCheckStaleThreshold - time.Minute)
	relay.mu.Unlock()

	if relay.IsReady() {
		t.Errorf("a relay with no recent processing pass is not ready")
	}
	if !relay.IsHealthy() {
		t.Errorf("staleness degrades readiness, not liveness")
	}
}
