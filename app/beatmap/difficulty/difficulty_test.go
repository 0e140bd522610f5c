package difficulty

import (
	"math"
	"testing"
)

func TestModsString(t *testing.T) {
	cases := map[Modifier]string{
		None:                            "",
		Hidden | DoubleTime:             "HDDT",
		Hidden | DoubleTime | Nightcore: "HDNC",
		HardRock | Flashlight | ScoreV2: "HRFLV2",
		SuddenDeath | Perfect:           "PF",
	}

	for mods, want := range cases {
		if got := mods.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mods, got, want)
		}
	}
}

func TestParseMods(t *testing.T) {
	if got := ParseMods("hdhr"); got != Hidden|HardRock {
		t.Errorf("ParseMods(hdhr) = %s", got)
	}

	if got := ParseMods("NC"); got != Nightcore|DoubleTime {
		t.Errorf("ParseMods(NC) = %d", got)
	}

	if got := ParseMods("XXFL"); got != Flashlight {
		t.Errorf("unknown acronyms should be skipped, got %s", got)
	}

	if got := ParseMods(""); got != None {
		t.Errorf("ParseMods(\"\") = %s", got)
	}
}

func TestDiffMaskedMods(t *testing.T) {
	if got := GetDiffMaskedMods(NoFail | Hidden | ScoreV2); got != Hidden {
		t.Errorf("GetDiffMaskedMods = %s, want HD", got)
	}
}

func TestCompatible(t *testing.T) {
	if (Easy | HardRock).Compatible() {
		t.Error("EZHR should be incompatible")
	}

	if !(Hidden | DoubleTime).Compatible() {
		t.Error("HDDT should be compatible")
	}
}

func TestDifficultyMods(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)

	if diff.Speed != 1 {
		t.Fatalf("nomod speed = %v", diff.Speed)
	}

	if math.Abs(diff.ARReal-9) > 1e-9 {
		t.Errorf("nomod ARReal = %v, want 9", diff.ARReal)
	}

	diff.SetMods(DoubleTime)

	if diff.Speed != 1.5 {
		t.Errorf("DT speed = %v", diff.Speed)
	}

	// AR9 preempt is 600ms, 400ms with DT -> AR10.33
	if math.Abs(diff.ARReal-(5+(1200-400)/150.0)) > 1e-9 {
		t.Errorf("DT ARReal = %v", diff.ARReal)
	}

	diff.SetMods(HardRock)

	if diff.ARMod != 10 || math.Abs(diff.CSMod-5.2) > 1e-9 {
		t.Errorf("HR AR/CS = %v/%v", diff.ARMod, diff.CSMod)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	diff.SetMods(Hidden)

	clone := diff.Clone()
	diff.SetMods(HardRock)

	if clone.Mods != Hidden {
		t.Errorf("clone mods changed to %s", clone.Mods)
	}

	if clone.GetBaseAR() != 9 {
		t.Errorf("clone base AR = %v", clone.GetBaseAR())
	}
}
