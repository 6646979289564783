package incident

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var testOutletID = uuid.MustParse("3f1d9a36-0c41-4f36-9e52-7d1f6a2b8c90")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeKeyDeterministic(t *testing.T) {
	date := day(2025, time.November, 26)

	k1 := ComputeKey(testOutletID, date, "Budget Speech", "J. Smith")
	k2 := ComputeKey(testOutletID, date, "Budget Speech", "J. Smith")
	if k1 != k2 {
		t.Errorf("identical inputs produced different keys: %s vs %s", k1, k2)
	}

	if len(k1) != 64 {
		t.Errorf("key length is %d, expected 64 hex chars", len(k1))
	}
}

func TestComputeKeyNormalization(t *testing.T) {
	date := day(2025, time.November, 26)
	base := ComputeKey(testOutletID, date, "Budget Speech", "J. Smith")

	variants := []struct {
		programme string
		presenter string
	}{
		{"budget speech", "j. smith"},
		{"  Budget Speech ", "J. Smith"},
		{"Budget   Speech", "J.  Smith "},
		{"BUDGET SPEECH", "J. SMITH"},
	}

	for _, v := range variants {
		t.Run(v.programme+"/"+v.presenter, func(t *testing.T) {
			got := ComputeKey(testOutletID, date, v.programme, v.presenter)
			if got != base {
				t.Errorf("normalized-equal inputs produced key %s, expected %s", got, base)
			}
		})
	}
}

func TestComputeKeyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, time.November, 26, 8, 15, 0, 0, time.UTC)
	evening := time.Date(2025, time.November, 26, 22, 45, 9, 0, time.UTC)

	k1 := ComputeKey(testOutletID, morning, "Newsnight", "")
	k2 := ComputeKey(testOutletID, evening, "Newsnight", "")
	if k1 != k2 {
		t.Errorf("same calendar date produced different keys: %s vs %s", k1, k2)
	}
}

func TestComputeKeyDistinguishesIncidents(t *testing.T) {
	date := day(2025, time.November, 26)
	base := ComputeKey(testOutletID, date, "Budget Speech", "J. Smith")

	otherOutlet := ComputeKey(uuid.MustParse("9b7e2c10-55aa-4d6f-8f03-6d41e5b7a222"), date, "Budget Speech", "J. Smith")
	otherDate := ComputeKey(testOutletID, day(2025, time.November, 27), "Budget Speech", "J. Smith")
	otherProgramme := ComputeKey(testOutletID, date, "Question Time", "J. Smith")

	for name, other := range map[Key]string{
		otherOutlet:    "different outlet",
		otherDate:      "different date",
		otherProgramme: "different programme",
	} {
		if name == base {
			t.Errorf("%s collided with base key", other)
		}
	}
}

func TestSelectStrategyCycles(t *testing.T) {
	n := len(StrategyCatalog)
	seen := make(map[Strategy]bool)

	for i := 0; i < n; i++ {
		s := SelectStrategy(i)
		if seen[s] {
			t.Errorf("strategy %s assigned twice within first %d submissions", s, n)
		}
		seen[s] = true
	}

	if got := SelectStrategy(n); got != SelectStrategy(0) {
		t.Errorf("submission %d got %s, expected wrap to %s", n, got, SelectStrategy(0))
	}
	if got := SelectStrategy(n + 2); got != SelectStrategy(2) {
		t.Errorf("submission %d got %s, expected %s", n+2, got, SelectStrategy(2))
	}
}

func TestSelectStrategyNegativeCount(t *testing.T) {
	if got := SelectStrategy(-1); got != StrategyCatalog[0] {
		t.Errorf("negative prior count got %s, expected %s", got, StrategyCatalog[0])
	}
}

func TestToneProfileFallback(t *testing.T) {
	if Tone("sarcastic").Profile() != ToneProfessional.Profile() {
		t.Error("unknown tone should fall back to professional profile")
	}
	if !ToneAcademic.Valid() {
		t.Error("academic should be a valid tone")
	}
	if Tone("sarcastic").Valid() {
		t.Error("sarcastic should not be a valid tone")
	}
}
