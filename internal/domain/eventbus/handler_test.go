package eventbus

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition never satisfied")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStatsHandlerCountsEvents(t *testing.T) {
	handler := SetupEventHandlers(nil)

	PublishAsync(EventEffectApplied, EffectEventData{Replacements: 3})
	PublishAsync(EventEffectApplied, EffectEventData{Replacements: 2, Fallback: true})
	PublishAsync(EventEffectError, EffectEventData{SessionID: "s1"})
	PublishAsync(EventPresetSaved, PresetEventData{Name: "p"})
	PublishAsync(EventConnectionOpened, ConnectionEventData{SessionID: "s1"})
	PublishAsync(EventConnectionClosed, ConnectionEventData{SessionID: "s1"})

	waitFor(t, func() bool {
		s := handler.Snapshot()
		return s.PassesApplied == 2 &&
			s.Fallbacks == 1 &&
			s.Errors == 1 &&
			s.PresetsSaved == 1 &&
			s.SessionsOpened == 1 &&
			s.SessionsClosed == 1 &&
			s.TotalReplacements == 5
	})
}
