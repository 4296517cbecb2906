// Package gauge owns the stress and boss alert gauges shared by every tool
// call, together with the two background loops that drift them over time.
package gauge

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vthunder/chillmcp/internal/logging"
)

const (
	MaxStress     = 100
	MaxBossAlert  = 5
	InitialStress = 50

	// DefaultStressDriftPeriod is both the drift loop's wake period and the
	// idle time required before stress creeps up by one.
	DefaultStressDriftPeriod = 60 * time.Second
	// DefaultAlertCheckPeriod is how often the cooldown loop looks at the alert.
	DefaultAlertCheckPeriod = time.Second
)

var (
	ErrInvalidProbability = errors.New("boss alertness must be between 0 and 100")
	ErrInvalidCooldown    = errors.New("boss alertness cooldown must be greater than 0")
)

// Config is the startup configuration of a Controller.
type Config struct {
	// AlertRiseProbability is the chance, in percent, that a break raises the
	// boss alert level.
	AlertRiseProbability int
	// AlertCooldown is the idle time after which the alert drops by one.
	AlertCooldown time.Duration
}

// Validate rejects out-of-range settings. Values are never clamped.
func (c Config) Validate() error {
	if c.AlertRiseProbability < 0 || c.AlertRiseProbability > 100 {
		return fmt.Errorf("%w (got %d)", ErrInvalidProbability, c.AlertRiseProbability)
	}
	if c.AlertCooldown <= 0 {
		return fmt.Errorf("%w (got %v)", ErrInvalidCooldown, c.AlertCooldown)
	}
	return nil
}

// Options holds the seams used by tests and by the observers wired in main.
// Zero values select the production behavior.
type Options struct {
	Now               func() time.Time
	Rand              *rand.Rand
	StressDriftPeriod time.Duration
	AlertCheckPeriod  time.Duration
	// OnChange is called once per gauge transition, after the lock is released.
	OnChange func(Transition)
}

// Controller serializes every read and write of the gauge pair.
type Controller struct {
	mu sync.Mutex

	stress    int
	bossAlert int

	probability int
	cooldown    time.Duration

	lastStressDrift   time.Time
	lastAlertCooldown time.Time

	rng *rand.Rand // guarded by mu

	now         func() time.Time
	driftPeriod time.Duration
	checkPeriod time.Duration
	onChange    func(Transition)

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New validates cfg, builds the controller and starts both drift loops.
func New(cfg Config, opts Options) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		stress:      InitialStress,
		probability: cfg.AlertRiseProbability,
		cooldown:    cfg.AlertCooldown,
		rng:         opts.Rand,
		now:         opts.Now,
		driftPeriod: opts.StressDriftPeriod,
		checkPeriod: opts.AlertCheckPeriod,
		onChange:    opts.OnChange,
		stopChan:    make(chan struct{}),
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.driftPeriod <= 0 {
		c.driftPeriod = DefaultStressDriftPeriod
	}
	if c.checkPeriod <= 0 {
		c.checkPeriod = DefaultAlertCheckPeriod
	}

	start := c.now()
	c.lastStressDrift = start
	c.lastAlertCooldown = start

	c.wg.Add(2)
	go c.runLoop("stress-drift", c.driftPeriod, c.driftStress)
	go c.runLoop("alert-cooldown", c.checkPeriod, c.coolAlert)

	logging.Info("gauge", "Started (alertness=%d%%, cooldown=%v, drift every %v)",
		c.probability, c.cooldown, c.driftPeriod)
	return c, nil
}

// Close stops the background loops and waits for them to exit.
func (c *Controller) Close() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
}

// DecreaseStress lowers stress by amount, never below zero, and restarts the
// idle clock used by the drift loop. Negative amounts count as zero.
func (c *Controller) DecreaseStress(amount int) {
	if amount < 0 {
		amount = 0
	}

	c.mu.Lock()
	now := c.now()
	from := c.stress
	c.stress = max(0, c.stress-amount)
	c.lastStressDrift = now
	t := Transition{Kind: KindStressDecrease, From: from, To: c.stress, Amount: amount, At: now}
	c.mu.Unlock()

	logging.Info("gauge", "stress %d → %d (decrease %d)", t.From, t.To, amount)
	c.notify(t)
}

// AttemptRaiseAlert runs one Bernoulli trial with the configured probability.
// On success the alert rises by one, saturating at MaxBossAlert.
func (c *Controller) AttemptRaiseAlert() bool {
	c.mu.Lock()
	draw := c.rng.IntN(100) + 1
	if draw > c.probability {
		c.mu.Unlock()
		logging.Debug("gauge", "alert roll %d > %d%%, boss not watching", draw, c.probability)
		return false
	}
	from := c.bossAlert
	c.bossAlert = min(MaxBossAlert, c.bossAlert+1)
	t := Transition{Kind: KindAlertRaise, From: from, To: c.bossAlert, Amount: 1, At: c.now()}
	c.mu.Unlock()

	logging.Warn("gauge", "boss alert %d → %d (alertness %d%%)", t.From, t.To, c.probability)
	c.notify(t)
	return true
}

// Snapshot returns both gauges and the elapsed-time diagnostics, all read
// under the same lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	return Snapshot{
		Stress:             c.stress,
		BossAlert:          c.bossAlert,
		SinceStressDrift:   now.Sub(c.lastStressDrift),
		SinceAlertCooldown: now.Sub(c.lastAlertCooldown),
		StressDriftPeriod:  c.driftPeriod,
		AlertCooldown:      c.cooldown,
	}
}

func (c *Controller) notify(t Transition) {
	if c.onChange != nil {
		c.onChange(t)
	}
}
