package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oss-matchmaker/internal/adapter/cache"
	"oss-matchmaker/internal/adapter/gemini"
	"oss-matchmaker/internal/adapter/github"
	"oss-matchmaker/internal/adapter/repository"
	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/config"
	"oss-matchmaker/internal/handler"
	"oss-matchmaker/internal/port"
	"oss-matchmaker/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 配置加载失败: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn (DATABASE_DSN) is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.NewPostgresRepo(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("DB 初始化失败: %w", err)
	}
	defer store.Close()

	recCache, err := newCache(ctx, cfg, store)
	if err != nil {
		return err
	}

	appraiser, closeAI, err := newAppraiser(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return fmt.Errorf("AI 初始化失败: %w", err)
	}
	defer closeAI()
	if appraiser == nil {
		logger.Info("GEMINI_API_KEY not set, analysis summaries use heuristics only")
	}

	sources := github.NewFactory(github.Options{
		BaseURL:    cfg.GitHub.APIURL,
		MaxRetries: cfg.GitHub.MaxRetries,
	})

	h := handler.New(
		service.NewRecommendationService(store, sources, recCache, logger, serviceOptions(cfg)),
		service.NewProfileService(store, sources, logger),
		service.NewAnalysisService(store, sources, appraiser, logger),
		service.NewSavedService(store, logger),
		logger,
	)
	e := handler.NewRouter(h, logger)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.WithFields(logrus.Fields{
			"addr":         addr,
			"cache_driver": cfg.Cache.Driver,
		}).Info("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// serviceOptions 把配置映射为推荐流程参数
func serviceOptions(cfg *config.Config) service.Options {
	opts := service.DefaultOptions()
	r := cfg.Recommend
	opts.DefaultLimit = r.DefaultLimit
	opts.CacheBatch = r.CacheBatch
	opts.CacheTTL = cfg.Cache.TTL
	opts.ActivityDays = r.ActivityDays
	opts.MinStars = r.MinStars
	opts.RepoFetchCap = r.RepoFetchCap
	opts.IssueRepoFetchCap = r.IssueRepoFetchCap
	opts.IssueRepoFanout = r.IssueRepoFanout
	return opts
}

// newCache 按 cache.driver 选择推荐缓存，postgres 时直接复用数据库
func newCache(ctx context.Context, cfg *config.Config, pg port.RecommendationCache) (port.RecommendationCache, error) {
	if cfg.Cache.Driver != config.CacheDriverRedis {
		return pg, nil
	}

	rc := cache.NewRedisCache(cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), cfg.Cache.TTL)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}
	return rc, nil
}

// newAppraiser 没有 key 时返回 nil 接口，分析服务退回规则总结
func newAppraiser(ctx context.Context, apiKey string) (port.Appraiser, func(), error) {
	if apiKey == "" {
		return nil, func() {}, nil
	}
	g, err := gemini.NewGeminiAppraiser(ctx, apiKey)
	if err != nil {
		return nil, func() {}, err
	}
	return g, func() { _ = g.Close() }, nil
}
