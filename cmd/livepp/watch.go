package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/Givikap120/danser-livepp/app/beatmap"
	"github.com/Givikap120/danser-livepp/app/play"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/timed"
	"github.com/Givikap120/danser-livepp/app/settings"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// indexSongs maps beatmap MD5s to .osu paths under dir
func indexSongs(dir string) (map[string]string, error) {
	startTime := time.Now()
	index := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".osu") {
			return nil
		}

		bm, err := beatmap.ParseFile(path)
		if err != nil {
			if !errors.Is(err, beatmap.ErrUnsupportedMode) && !errors.Is(err, beatmap.ErrNoHitObjects) {
				log.Println("Skipping", path+":", err)
			}

			return nil
		}

		index[bm.MD5] = path

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to index songs: %w", err)
	}

	log.Println("Indexed", len(index), "beatmaps in", time.Since(startTime).Truncate(time.Millisecond).String())

	return index, nil
}

func watch(ctx context.Context, cfg *settings.Config, provider timed.Provider, dir string, out io.Writer) error {
	if cfg.General.SongsDir == "" {
		return errors.New("no songs directory, set general.songs_dir or --songs")
	}

	index, err := indexSongs(cfg.General.SongsDir)
	if err != nil {
		return err
	}

	return watchReplays(ctx, dir, func(ctx context.Context, path string) error {
		return simulateReplay(ctx, cfg, provider, index, path, out)
	})
}

// watchReplays calls handle for every .osr file created or written in dir until ctx is done.
// A replay is handled again on its next write until handle succeeds once.
func watchReplays(ctx context.Context, dir string, handle func(ctx context.Context, path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err = watcher.Add(dir); err != nil {
		return err
	}

	log.Println("Watching", dir, "for replays")

	replays := make(chan string, 16)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(replays)

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}

				if !strings.EqualFold(filepath.Ext(event.Name), ".osr") {
					continue
				}

				select {
				case replays <- event.Name:
				case <-ctx.Done():
					return nil
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				log.Println("Watcher error:", err)
			}
		}
	})

	g.Go(func() error {
		done := make(map[string]bool)

		for path := range replays {
			if done[path] {
				continue
			}

			if err := handle(ctx, path); err != nil {
				// usually a replay that's still being written, the next write event retries it
				log.Println("Failed to simulate", filepath.Base(path)+":", err)
				continue
			}

			done[path] = true
		}

		return nil
	})

	return g.Wait()
}

func simulateReplay(ctx context.Context, cfg *settings.Config, provider timed.Provider, index map[string]string, path string, out io.Writer) error {
	replay, err := play.LoadReplay(path)
	if err != nil {
		return err
	}

	mapPath, ok := index[replay.BeatmapMD5]
	if !ok {
		return fmt.Errorf("beatmap %s is not in the songs directory", replay.BeatmapMD5)
	}

	bm, err := beatmap.ParseFile(mapPath)
	if err != nil {
		return err
	}

	plan, mods, err := play.PlanFromReplay(bm, replay)
	if err != nil {
		return err
	}

	log.Println("Simulating replay by", replay.Username, "on", bm.String())

	return runSession(ctx, cfg, provider, bm, plan, mods, false, out)
}
