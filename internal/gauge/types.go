package gauge

import "time"

// Kind identifies which gauge moved and why
type Kind string

const (
	KindStressDecrease Kind = "stress_decrease" // A break relieved stress
	KindStressDrift    Kind = "stress_drift"    // Idle stress crept up
	KindAlertRaise     Kind = "alert_raise"     // The boss noticed a break
	KindAlertCooldown  Kind = "alert_cooldown"  // The boss lost interest
)

// Transition records a single change to one gauge
type Transition struct {
	Kind   Kind
	From   int
	To     int
	Amount int
	At     time.Time
}

// Snapshot is a consistent point-in-time read of both gauges
type Snapshot struct {
	Stress    int
	BossAlert int

	SinceStressDrift   time.Duration
	SinceAlertCooldown time.Duration

	StressDriftPeriod time.Duration
	AlertCooldown     time.Duration
}
