// Package main runs one combat scene in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/config"
	"github.com/cory-johannsen/bloodrage/internal/frontend/console"
	"github.com/cory-johannsen/bloodrage/internal/game/ai"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/game/dice"
	"github.com/cory-johannsen/bloodrage/internal/gameserver"
	"github.com/cory-johannsen/bloodrage/internal/observability"
	"github.com/cory-johannsen/bloodrage/internal/scripting"
	"github.com/cory-johannsen/bloodrage/internal/server"
	"github.com/cory-johannsen/bloodrage/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	sceneID := flag.String("scene", "", "scene to play; empty lists the available scenes")
	seed := flag.Uint64("seed", 0, "random seed overriding combat.seed; 0 keeps the configured value")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != 0 {
		cfg.Combat.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewCryptoSource()
	if cfg.Combat.Seed != 0 {
		src = dice.NewSeededSource(cfg.Combat.Seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	contentStart := time.Now()
	content, err := gameserver.LoadContent(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("effects", content.Effects.Len()),
		zap.Int("characters", len(content.Characters.IDs())),
		zap.Int("scenes", len(content.Scenes)),
		zap.Int("tactics", content.Tactics.Len()),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	if *sceneID == "" {
		for _, id := range content.SceneIDs() {
			fmt.Fprintf(os.Stdout, "%-12s %s\n", id, content.Scenes[id].Name)
		}
		return
	}

	var caller ai.ScriptCaller
	var scripts *scripting.Manager
	if cfg.Content.ScriptsDir != "" {
		scripts = scripting.NewManager(roller, logger)
		defer scripts.Close()
		scopes, err := scripts.LoadTree(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit)
		if err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
		logger.Info("scripts loaded", zap.String("scopes", strings.Join(scopes, ",")))
		caller = scripts
	}

	var recorder combat.OutcomeRecorder
	if cfg.Database.Enabled {
		store, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("opening outcome store", zap.Error(err))
		}
		defer store.Close()
		recorder = store.Outcomes()
	}

	svc := gameserver.NewService(cfg.Combat, content, caller, roller, recorder, logger)
	con := console.New(svc, *sceneID, os.Stdin, os.Stdout, logger)
	if scripts != nil {
		scripts.Say = con.Say
	}

	lc := server.NewLifecycle(logger)
	lc.Add("combat", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		StopFn: svc.Shutdown,
	})
	lc.Add("console", con)

	logger.Info("skirmish ready", zap.String("scene", *sceneID), zap.Duration("startup", time.Since(start)))
	if err := lc.Run(ctx); err != nil {
		logger.Fatal("skirmish failed", zap.Error(err))
	}
}
