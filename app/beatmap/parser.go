package beatmap

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/beatmap/objects"
)

var (
	ErrNoHitObjects    = errors.New("beatmap has no hit objects")
	ErrUnsupportedMode = errors.New("only osu!standard beatmaps are supported")
)

const (
	typeCircle   = 1
	typeSlider   = 2
	typeNewCombo = 4
	typeSpinner  = 8
)

func ParseFile(path string) (*BeatMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read beatmap %q: %w", path, err)
	}

	bm, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse beatmap %q: %w", path, err)
	}

	bm.File = path

	return bm, nil
}

// Parse reads a .osu file. The MD5 of the consumed bytes is stored in BeatMap.MD5.
func Parse(r io.Reader) (*BeatMap, error) {
	hash := md5.New()

	scanner := bufio.NewScanner(io.TeeReader(r, hash))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	bm := &BeatMap{
		SliderMultiplier: 1.4,
		TickRate:         1,
	}

	hp, cs, od, ar := 5.0, 5.0, 5.0, -1.0

	var rawObjects []string

	section := ""

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line[1 : len(line)-1]
			continue
		}

		switch section {
		case "General", "Metadata", "Difficulty":
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}

			key, value = strings.TrimSpace(key), strings.TrimSpace(value)

			switch key {
			case "Mode":
				bm.Mode, _ = strconv.Atoi(value)
			case "Title":
				bm.Title = value
			case "Artist":
				bm.Artist = value
			case "Version":
				bm.Version = value
			case "Creator":
				bm.Creator = value
			case "HPDrainRate":
				hp = parseFloat(value, hp)
			case "CircleSize":
				cs = parseFloat(value, cs)
			case "OverallDifficulty":
				od = parseFloat(value, od)
			case "ApproachRate":
				ar = parseFloat(value, ar)
			case "SliderMultiplier":
				bm.SliderMultiplier = parseFloat(value, bm.SliderMultiplier)
			case "SliderTickRate":
				bm.TickRate = min(maxTickRate, max(minTickRate, parseFloat(value, bm.TickRate)))
			}
		case "TimingPoints":
			if point, ok := parseTimingPoint(line); ok {
				bm.Timings = append(bm.Timings, point)
			}
		case "HitObjects":
			rawObjects = append(rawObjects, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if bm.Mode != 0 {
		return nil, ErrUnsupportedMode
	}

	// Old beatmaps don't have AR, it was equal to OD
	if ar < 0 {
		ar = od
	}

	bm.Diff = difficulty.NewDifficulty(hp, cs, od, ar)

	sort.SliceStable(bm.Timings, func(i, j int) bool {
		return bm.Timings[i].Time < bm.Timings[j].Time
	})

	for _, line := range rawObjects {
		obj, err := bm.parseHitObject(line)
		if err != nil {
			return nil, err
		}

		if obj != nil {
			obj.SetID(len(bm.HitObjects))
			bm.HitObjects = append(bm.HitObjects, obj)
		}
	}

	if len(bm.HitObjects) == 0 {
		return nil, ErrNoHitObjects
	}

	sort.SliceStable(bm.HitObjects, func(i, j int) bool {
		return bm.HitObjects[i].GetStartTime() < bm.HitObjects[j].GetStartTime()
	})

	for i, o := range bm.HitObjects {
		o.SetID(i)
	}

	bm.MD5 = hex.EncodeToString(hash.Sum(nil))

	return bm, nil
}

func parseTimingPoint(line string) (TimingPoint, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return TimingPoint{}, false
	}

	time, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	beatLength, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)

	if err1 != nil || err2 != nil || beatLength == 0 {
		return TimingPoint{}, false
	}

	inherited := beatLength < 0
	if len(parts) > 6 {
		inherited = strings.TrimSpace(parts[6]) == "0"
	}

	return TimingPoint{Time: time, BeatLength: beatLength, Inherited: inherited && beatLength < 0}, true
}

func (bm *BeatMap) parseHitObject(line string) (objects.IHitObject, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return nil, fmt.Errorf("malformed hit object %q", line)
	}

	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	time, errT := strconv.ParseFloat(parts[2], 64)
	objType, errType := strconv.Atoi(parts[3])

	if err := errors.Join(errX, errY, errT, errType); err != nil {
		return nil, fmt.Errorf("malformed hit object %q: %w", line, err)
	}

	position := mgl64.Vec2{x, y}
	newCombo := objType&typeNewCombo > 0

	switch {
	case objType&typeCircle > 0:
		return objects.NewCircle(time, position, newCombo), nil
	case objType&typeSlider > 0:
		if len(parts) < 8 {
			return nil, fmt.Errorf("malformed slider %q", line)
		}

		points := []mgl64.Vec2{position}

		for _, p := range strings.Split(parts[5], "|")[1:] {
			px, py, ok := strings.Cut(p, ":")
			if !ok {
				continue
			}

			points = append(points, mgl64.Vec2{parseFloat(px, x), parseFloat(py, y)})
		}

		repeats, _ := strconv.Atoi(parts[6])
		length := parseFloat(parts[7], 0)

		slider := objects.NewSlider(time, points, repeats, length, newCombo)

		beatLength, sv := bm.timingAt(time)
		velocity := 100 * bm.SliderMultiplier * sv / beatLength

		tickInterval := 0.0
		if bm.TickRate > 0 {
			tickInterval = beatLength / bm.TickRate
		}

		slider.SetTiming(velocity, tickInterval)

		return slider, nil
	case objType&typeSpinner > 0:
		if len(parts) < 6 {
			return nil, fmt.Errorf("malformed spinner %q", line)
		}

		endTime := parseFloat(parts[5], time)

		return objects.NewSpinner(time, max(time, endTime), newCombo), nil
	}

	// osu!mania holds and unknown types
	return nil, nil
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}

	return v
}
