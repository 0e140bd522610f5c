package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/settings"
)

const testMap = `osu file format v14

[General]
Mode: 0

[Metadata]
Title:Test Song
Artist:Someone
Version:Insane

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,100,1,0

[HitObjects]
256,192,1000,5,0,0:0:0:0:
100,100,1500,2,0,L|300:100,1,200
400,300,2800,1,0,0:0:0:0:
256,192,3000,12,0,4000,0:0:0:0:
`

func writeMap(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "map.osu")
	if err := os.WriteFile(path, []byte(testMap), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestSimulate(t *testing.T) {
	path := writeMap(t, t.TempDir())

	cfg := settings.Default()
	cfg.General.Database = ""

	provider := timed.NewCalculatorProvider(reading.NewDifficultyCalculator())

	var out bytes.Buffer

	err := simulate(context.Background(), cfg, provider, simulateOptions{beatmap: path, mods: "HD", all: true}, &out)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	text := out.String()

	for _, want := range []string{"Someone - Test Song [Insane] +HD", "ABSOLUTE", "INCREMENTAL", "PERFECT", "Accuracy: 100.00%, max combo: 6/6"} {
		if !strings.Contains(text, want) {
			t.Errorf("output is missing %q:\n%s", want, text)
		}
	}
}

func TestIndexSongs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "123 Someone - Test Song")

	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	path := writeMap(t, sub)

	if err := os.WriteFile(filepath.Join(sub, "broken.osu"), []byte("[HitObjects]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	index, err := indexSongs(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(index) != 1 {
		t.Fatalf("index = %v", index)
	}

	for _, p := range index {
		if p != path {
			t.Errorf("indexed %s, want %s", p, path)
		}
	}
}
