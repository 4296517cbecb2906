package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vthunder/chillmcp/internal/config"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.BossAlertness = 80
	cfg.BossAlertnessCooldown = 120

	printBanner(&buf, cfg)

	out := buf.String()
	for _, want := range []string{"Boss Alertness: 80%", "Boss Alert Cooldown: 120s"} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Transport: sse") {
		t.Error("stdio banner should not mention sse")
	}
}
