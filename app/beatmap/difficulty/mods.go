package difficulty

import (
	"strings"
)

// Modifier is a bit set of gameplay mods. Bit order doubles as the canonical mod order.
type Modifier int64

const (
	None        Modifier = 0
	NoFail      Modifier = 1 << 0
	Easy        Modifier = 1 << 1
	TouchDevice Modifier = 1 << 2
	Hidden      Modifier = 1 << 3
	HardRock    Modifier = 1 << 4
	SuddenDeath Modifier = 1 << 5
	DoubleTime  Modifier = 1 << 6
	Relax       Modifier = 1 << 7
	HalfTime    Modifier = 1 << 8
	Nightcore   Modifier = 1 << 9
	Flashlight  Modifier = 1 << 10
	Autoplay    Modifier = 1 << 11
	SpunOut     Modifier = 1 << 12
	Relax2      Modifier = 1 << 13
	Perfect     Modifier = 1 << 14
	ScoreV2     Modifier = 1 << 29
	Lazer       Modifier = 1 << 40

	// DifficultyAdjustMask contains mods that change difficulty attributes
	DifficultyAdjustMask = Easy | TouchDevice | Hidden | HardRock | DoubleTime | Relax | HalfTime | Nightcore | Flashlight | SpunOut | Relax2
)

var modsString = [...]string{
	"NF",
	"EZ",
	"TD",
	"HD",
	"HR",
	"SD",
	"DT",
	"RX",
	"HT",
	"NC",
	"FL",
	"AT",
	"SO",
	"AP",
	"PF",
}

var extraMods = map[string]Modifier{
	"V2": ScoreV2,
	"LZ": Lazer,
}

// Active returns true if any of the given mods is set
func (mods Modifier) Active(m Modifier) bool {
	return mods&m > 0
}

func (mods Modifier) String() string {
	var b strings.Builder

	for i, name := range modsString {
		m := Modifier(1 << i)

		if !mods.Active(m) {
			continue
		}

		// NC and PF imply DT and SD, don't print those twice
		if (m == DoubleTime && mods.Active(Nightcore)) || (m == SuddenDeath && mods.Active(Perfect)) {
			continue
		}

		b.WriteString(name)
	}

	if mods.Active(ScoreV2) {
		b.WriteString("V2")
	}

	if mods.Active(Lazer) {
		b.WriteString("LZ")
	}

	return b.String()
}

// ParseMods parses a string of two-letter mod acronyms, e.g. "HDDT". Unknown acronyms are ignored.
func ParseMods(mods string) Modifier {
	mods = strings.ToUpper(strings.ReplaceAll(mods, " ", ""))

	var result Modifier

	for i := 0; i+2 <= len(mods); i += 2 {
		acronym := mods[i : i+2]

		if m, ok := extraMods[acronym]; ok {
			result |= m
			continue
		}

		for j, name := range modsString {
			if name == acronym {
				result |= Modifier(1 << j)
				break
			}
		}
	}

	if result.Active(Nightcore) {
		result |= DoubleTime
	}

	if result.Active(Perfect) {
		result |= SuddenDeath
	}

	return result
}

func GetDiffMaskedMods(mods Modifier) Modifier {
	return mods & DifficultyAdjustMask
}

// Compatible returns false for mod combinations that cannot be played together
func (mods Modifier) Compatible() bool {
	return !((mods.Active(Easy) && mods.Active(HardRock)) ||
		(mods.Active(HalfTime) && mods.Active(DoubleTime)) ||
		(mods.Active(Relax) && mods.Active(Relax2)) ||
		(mods.Active(NoFail) && mods.Active(SuddenDeath)))
}
