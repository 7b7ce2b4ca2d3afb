package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	_ "github.com/ebitengine/hideconsole"

	"chosenoffset.com/stardodge/internal/audio"
	"chosenoffset.com/stardodge/internal/game"
	"chosenoffset.com/stardodge/internal/placeholders"
	"chosenoffset.com/stardodge/internal/render"
	ebitenrender "chosenoffset.com/stardodge/internal/render/ebiten"
	"chosenoffset.com/stardodge/internal/render/terminal"
	"chosenoffset.com/stardodge/internal/simulation"
)

// backend bundles one rendering implementation.
type backend struct {
	renderer render.Renderer
	input    render.InputManager
	loader   render.ResourceLoader
	engine   render.Engine
	close    func()
}

func main() {
	configPath := flag.String("config", "stardodge.yaml", "path to the rules file")
	backendName := flag.String("backend", "ebiten", "rendering backend: ebiten or terminal")
	seed := flag.Int64("seed", 0, "obstacle placement seed (0 uses the clock)")
	logPath := flag.String("log", "", "write the log to this file (defaults to stardodge.log for the terminal backend)")
	flag.Parse()

	if err := run(*configPath, *backendName, *seed, *logPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath, backendName string, seed int64, logPath string) error {
	// The terminal backend owns stdout, so its log goes to a file.
	if logPath == "" && backendName == "terminal" {
		logPath = "stardodge.log"
	}
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	cfg, err := simulation.LoadConfig(configPath)
	if err != nil {
		return err
	}

	b, err := newBackend(backendName)
	if err != nil {
		return err
	}
	defer b.close()

	assets, err := loadAssets(cfg, b.renderer, b.loader)
	if err != nil {
		return err
	}

	var music game.Music = &audio.Mute{}
	if cfg.Audio.Enabled {
		track, err := audio.LoadTrack(cfg.Assets.Music)
		if err != nil {
			return err
		}
		player, err := audio.NewPlayer(track, cfg.Audio.Volume)
		if err != nil {
			log.Printf("Warning: continuing without sound: %v", err)
		} else {
			defer player.Close()
			music = player
		}
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("Using %s backend, seed %d", backendName, seed)

	g := game.New(cfg, assets, b.renderer, b.input, b.engine.Clock(), music, rand.New(rand.NewSource(seed)))
	g.StartRun()

	b.engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	b.engine.SetWindowTitle(cfg.Window.Title)
	b.engine.SetTPS(cfg.Window.TPS)

	log.Println("Starting game...")
	if err := b.engine.RunGame(g); err != nil {
		return fmt.Errorf("game loop failed: %w", err)
	}
	log.Printf("Exited after %d run(s), best %.1fs", g.Runs, g.BestTime.Seconds())
	return nil
}

func newBackend(name string) (*backend, error) {
	switch name {
	case "ebiten":
		r, err := ebitenrender.NewRenderer()
		if err != nil {
			return nil, err
		}
		return &backend{
			renderer: r,
			input:    ebitenrender.NewInputManager(),
			loader:   ebitenrender.NewResourceLoader(),
			engine:   ebitenrender.NewEngine(),
			close:    func() {},
		}, nil
	case "terminal":
		screen, err := terminal.NewScreen()
		if err != nil {
			return nil, err
		}
		engine := terminal.NewEngine(screen)
		return &backend{
			renderer: engine.Renderer(),
			input:    engine.InputManager(),
			loader:   terminal.NewResourceLoader(),
			engine:   engine,
			close:    screen.Fini,
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// loadAssets loads the configured images. An empty path selects the
// generated placeholder; a path that fails to load is an error.
func loadAssets(cfg *simulation.Config, r render.Renderer, loader render.ResourceLoader) (game.Assets, error) {
	load := func(path string, placeholder func() render.Image) (render.Image, error) {
		if path == "" {
			return placeholder(), nil
		}
		img, err := loader.LoadImage(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return img, nil
	}

	var assets game.Assets
	var err error
	assets.Background, err = load(cfg.Assets.Background, func() render.Image {
		return r.NewImageFromImage(placeholders.Background(cfg.Window.Width, cfg.Window.Height))
	})
	if err != nil {
		return assets, err
	}
	assets.Player, err = load(cfg.Assets.Player, func() render.Image {
		return r.NewImageFromImage(placeholders.Player())
	})
	if err != nil {
		return assets, err
	}
	assets.Obstacle, err = load(cfg.Assets.Obstacle, func() render.Image {
		return r.NewImageFromImage(placeholders.Obstacle())
	})
	if err != nil {
		return assets, err
	}
	return assets, nil
}
