package gauge

import (
	"time"

	"github.com/vthunder/chillmcp/internal/logging"
)

// runLoop calls tick once per period until Close. The timer is re-armed after
// each tick so elapsed time is measured from the last check, not from a fixed
// schedule, and a slow tick never queues up a burst of catch-up ticks.
func (c *Controller) runLoop(name string, period time.Duration, tick func()) {
	defer c.wg.Done()

	timer := time.NewTimer(period)
	defer timer.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-timer.C:
			c.safeTick(name, tick)
			timer.Reset(period)
		}
	}
}

// safeTick keeps a panicking iteration from killing its loop.
func (c *Controller) safeTick(name string, tick func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("gauge", "%s loop recovered from panic: %v", name, r)
		}
	}()
	tick()
}

// driftStress adds one point of stress if nothing touched it for a full
// drift period. At most one point per call.
func (c *Controller) driftStress() {
	c.mu.Lock()
	now := c.now()
	if now.Sub(c.lastStressDrift) < c.driftPeriod || c.stress >= MaxStress {
		c.mu.Unlock()
		return
	}
	from := c.stress
	c.stress++
	c.lastStressDrift = now
	t := Transition{Kind: KindStressDrift, From: from, To: c.stress, Amount: 1, At: now}
	c.mu.Unlock()

	logging.Info("gauge", "stress drifted %d → %d (idle %v)", t.From, t.To, c.driftPeriod)
	c.notify(t)
}

// coolAlert drops the alert by one once the cooldown has passed since the
// previous drop.
func (c *Controller) coolAlert() {
	c.mu.Lock()
	now := c.now()
	if now.Sub(c.lastAlertCooldown) < c.cooldown || c.bossAlert <= 0 {
		c.mu.Unlock()
		return
	}
	from := c.bossAlert
	c.bossAlert--
	c.lastAlertCooldown = now
	t := Transition{Kind: KindAlertCooldown, From: from, To: c.bossAlert, Amount: 1, At: now}
	c.mu.Unlock()

	logging.Info("gauge", "boss alert cooled %d → %d (cooldown %v)", t.From, t.To, c.cooldown)
	c.notify(t)
}
