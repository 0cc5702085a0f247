// Command seed 以 AI 產生或從 JSON 檔載入活動資料
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"health-heroes/internal/core/activity"
	"health-heroes/internal/core/ai/openrouter"
	aiservice "health-heroes/internal/core/ai/service"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/infrastructure/database"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"go.uber.org/zap"
)

func main() {
	var (
		file     string
		category string
		per      int
		workers  int
		limit    int
		reset    bool
	)
	flag.StringVar(&file, "file", "", "load activities from a JSON file instead of generating them")
	flag.StringVar(&category, "category", "", "only generate this category")
	flag.IntVar(&per, "per", 5, "activities to request per home area/category/age range")
	flag.IntVar(&workers, "workers", 3, "concurrent generation workers")
	flag.IntVar(&limit, "limit", 0, "limit number of combinations processed")
	flag.BoolVar(&reset, "reset", false, "delete all existing activities first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, file, category, per, workers, limit, reset); err != nil {
		common.LogError("活動資料匯入失敗", zap.Error(err))
		common.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, file, category string, per, workers, limit int, reset bool) error {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	repo := repository.NewActivityRepo(db)
	if reset {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("reset activities: %w", err)
		}
		common.LogInfo("已清除既有活動", zap.Int64("deleted", n))
	}

	if file != "" {
		activities, err := activity.LoadFile(file)
		if err != nil {
			return err
		}
		gen := activity.NewGenerator(nil, repo, activity.GeneratorConfig{})
		if err := gen.SaveAll(ctx, activities); err != nil {
			return err
		}
		common.LogInfo("活動檔案匯入完成", zap.String("file", file), zap.Int("saved", len(activities)))
		return nil
	}

	combos := activity.AllCombinations()
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" {
		if !activity.IsCategory(category) {
			return fmt.Errorf("unknown category %q", category)
		}
		filtered := combos[:0]
		for _, c := range combos {
			if c.Category == category {
				filtered = append(filtered, c)
			}
		}
		combos = filtered
	}
	if limit > 0 && len(combos) > limit {
		combos = combos[:limit]
	}

	aiSvc := aiservice.NewService(openrouter.NewClient(cfg.OpenRouter), nil)
	defer aiSvc.Close()

	genCfg := activity.DefaultGeneratorConfig()
	genCfg.PerCombination = per
	genCfg.Workers = workers
	genCfg.RetryWait = cfg.OpenRouter.RetryWait
	gen := activity.NewGenerator(aiSvc, repo, genCfg)

	common.LogInfo("開始產生活動",
		zap.Int("combinations", len(combos)),
		zap.Int("per_combination", per),
		zap.Int("workers", workers),
		zap.String("model", aiSvc.Model()),
	)
	report, err := gen.Run(ctx, combos)
	if err != nil {
		return err
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	common.LogInfo("活動產生完成",
		zap.Int("generated", report.Generated),
		zap.Int("saved", report.Saved),
		zap.Strings("failed", report.Failed),
		zap.Int64("total_activities", total),
	)
	return nil
}
