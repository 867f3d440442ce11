package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gostockflow/config"
	_ "gostockflow/docs"
	"gostockflow/internal/pkg/authz"
	"gostockflow/internal/pkg/cache"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/database"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/pkg/metrics"
	"gostockflow/internal/pkg/middleware"
	"gostockflow/internal/pkg/notify"
	"gostockflow/internal/pkg/token"
	"gostockflow/internal/scoring"

	"gostockflow/internal/api/item"
	"gostockflow/internal/api/report"
	"gostockflow/internal/api/request"
	"gostockflow/internal/api/router"
	"gostockflow/internal/repository/auditrepo"
	"gostockflow/internal/repository/inventoryrepo"
	"gostockflow/internal/repository/requestrepo"
	"gostockflow/internal/service/consolidationservice"
	"gostockflow/internal/service/requestservice"
	"gostockflow/internal/service/supplierservice"
)

func main() {
	// 1. Configuração e Inicialização
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Info("⚡ Inicializando serviço GoStockFlow...", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL via lib/pq, gorm sobre o mesmo pool)
	sqlDB, err := database.NewPostgresDB(cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer sqlDB.Close()
	db, err := database.NewGorm(sqlDB)
	if err != nil {
		log.Fatal("Falha ao inicializar o gorm.", err)
	}
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis) é opcional: sem ele não há cache do resumo nem pub/sub.
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis indisponível; seguindo sem cache e com notificações em log.", map[string]interface{}{"error": err.Error()})
		} else {
			cacheClient = redisClient
			defer redisClient.Close()
			log.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// C. Métricas, relógio e autorização
	registry := metrics.NewRegistry()
	appMetrics := metrics.New(registry)
	clk := clock.RealClock{}

	authorizer, err := authz.NewCasbinAuthorizer()
	if err != nil {
		log.Fatal("Falha ao carregar políticas de autorização.", err)
	}

	leadTimes := scoring.DefaultLeadTimes()
	if len(cfg.SupplierLeadTimes) > 0 {
		leadTimes = scoring.NewStaticLeadTimes(cfg.SupplierLeadTimes, scoring.DefaultLeadTimeDays)
	}

	// D. Notificações assíncronas
	var sink notify.Notifier = notify.NewLogNotifier(log)
	if cacheClient != nil {
		sink = notify.NewRedisPublisher(cacheClient, cfg.NotifyChannel, clk)
	}
	notifier := notify.NewAsync(sink, cfg.NotifyQueueSize, log, appMetrics)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	var summaryCache requestrepo.SummaryCache
	if cacheClient != nil {
		summaryCache = cacheClient
	}
	requestRepo := requestrepo.NewRequestRepository(db, summaryCache, cfg.DBTimeout, cfg.CacheTimeout, clk, log)
	inventoryRepo := inventoryrepo.NewInventoryRepository(db, cfg.DBTimeout, log)
	auditRepo := auditrepo.NewAuditRepository(db, cfg.DBTimeout, clk, log)
	log.Debug("Repositórios inicializados.", nil)

	requestSvc := requestservice.NewService(requestservice.Deps{
		Store:      requestRepo,
		Inventory:  inventoryRepo,
		Audit:      auditRepo,
		Notifier:   notifier,
		Authorizer: authorizer,
		Scorer:     scoring.NewScorer(leadTimes),
		Clock:      clk,
		Metrics:    appMetrics,
		Logger:     log,
	}, requestservice.Options{
		MaxQuantity:     cfg.RequestMaxQuantity,
		FrequencyWindow: cfg.FrequencyWindow,
		Legacy:          cfg.LegacyScoring,
	})
	consolidationSvc := consolidationservice.NewService(requestRepo, authorizer, log)
	supplierSvc := supplierservice.NewService(inventoryRepo, leadTimes, authorizer, clk, log)
	log.Debug("Serviços inicializados.", nil)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimitBackend == "redis" && cacheClient != nil {
		rateLimit = middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, log, appMetrics)
	} else {
		rateLimit = middleware.MemoryRateLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, appMetrics)
	}

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Deps{
		Requests:   request.NewHandler(requestSvc, consolidationSvc, log),
		Items:      item.NewHandler(supplierSvc, log),
		Reports:    report.NewHandler(requestSvc, clk, log),
		TokenSvc:   tokenSvc,
		Authorizer: authorizer,
		RateLimit:  rateLimit,
		Metrics:    metrics.Handler(registry),
		Logger:     log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoStockFlow ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}
	// Drena as notificações pendentes antes de fechar Redis e banco.
	notifier.Close()

	log.Info("Servidor encerrado com sucesso.", nil)
}
