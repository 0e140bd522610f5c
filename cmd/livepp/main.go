package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/reading"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/settings"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("livepp", "Live pp estimation for osu! plays")

	configPath = app.Flag("config", "Path to the YAML config").Default("livepp.yaml").String()
	policies   = app.Flag("policy", "Policy to run, can be repeated (absolute, incremental, perfect)").Strings()
	database   = app.Flag("database", "Attribute cache database, empty disables caching").String()
	noWait     = app.Flag("no-wait", "Don't wait for attributes before feeding judgements").Bool()

	simulateCmd        = app.Command("simulate", "Feed a judgement plan through a live session and print the displayed values")
	simulateBeatmap    = simulateCmd.Flag("beatmap", "Beatmap .osu file").Required().ExistingFile()
	simulateReplayPath = simulateCmd.Flag("replay", "Replay .osr file to take judgement counts and mods from").ExistingFile()
	simulateMods       = simulateCmd.Flag("mods", "Mods, e.g. HDDT. Overrides replay mods").String()
	simulateAll        = simulateCmd.Flag("all", "Print every judgement instead of only changes").Bool()

	watchCmd   = app.Command("watch", "Simulate every replay written to a directory")
	watchDir   = watchCmd.Flag("dir", "Directory to watch for .osr files").Required().ExistingDir()
	watchSongs = watchCmd.Flag("songs", "Songs directory, overrides general.songs_dir").String()
)

func main() {
	app.Version("livepp " + runtime.Version())
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := settings.Load(*configPath)
	if err != nil {
		log.Fatalln("Failed to load settings:", err)
	}

	applyFlags(cfg)

	logHostInfo()

	provider, closeProvider := newProvider(cfg)
	defer closeProvider()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case simulateCmd.FullCommand():
		err = simulate(ctx, cfg, provider, simulateOptions{
			beatmap: *simulateBeatmap,
			replay:  *simulateReplayPath,
			mods:    *simulateMods,
			all:     *simulateAll,
		}, os.Stdout)
	case watchCmd.FullCommand():
		err = watch(ctx, cfg, provider, *watchDir, os.Stdout)
	}

	if err != nil && ctx.Err() == nil {
		closeProvider()
		log.Fatalln(err)
	}
}

func applyFlags(cfg *settings.Config) {
	if len(*policies) > 0 {
		cfg.Performance.Policies = *policies
	}

	if *database != "" {
		cfg.General.Database = *database
	}

	if *noWait {
		cfg.Playback.WaitForAttributes = false
	}

	if *watchSongs != "" {
		cfg.General.SongsDir = *watchSongs
	}
}

func newProvider(cfg *settings.Config) (timed.Provider, func()) {
	calc := reading.NewDifficultyCalculator()
	provider := timed.NewCalculatorProvider(calc)

	log.Println("Difficulty calculator version:", calc.GetVersion(), "-", calc.GetVersionMessage())

	if cfg.General.Database == "" {
		return provider, func() {}
	}

	cache, err := timed.NewCachedProvider(cfg.General.Database, provider, calc.GetVersion())
	if err != nil {
		log.Println("Attribute cache disabled:", err)
		return provider, func() {}
	}

	return cache, func() { cache.Close() }
}

func logHostInfo() {
	log.Println("OS/Arch:", runtime.GOOS+"/"+runtime.GOARCH)

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cores, _ := cpu.Counts(true)
		log.Println("CPU:", strings.TrimSpace(infos[0].ModelName), "with", cores, "threads")
	}

	if stat, err := mem.VirtualMemory(); err == nil {
		log.Println("RAM:", humanize.IBytes(stat.Total))
	}
}
