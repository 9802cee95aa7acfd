// HTTP API сервиса синхронизации с QuickBooks Online.
//
//	GET  /api/v1/health                # Состояние сервиса (публичный)
//	GET  /api/v1/types                 # Поддерживаемые типы сущностей
//	POST /api/v1/records               # Создать запись
//	GET  /api/v1/records               # Список записей
//	GET  /api/v1/records/{id}          # Получить запись
//	PUT  /api/v1/records/{id}          # Обновить запись
//	POST /api/v1/records/{id}/sync     # Синхронизировать запись
//	GET  /api/v1/records/{id}/remote   # Сущность в QuickBooks
//	POST /api/v1/sync                  # Синхронизировать ожидающие записи
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"

	healthAPI "qbsync/internal/app/server/api/http/health"
	"qbsync/internal/app/server/api/http/middleware"
	"qbsync/internal/app/server/api/http/middleware/auth"
	"qbsync/internal/app/server/api/http/middleware/logger"
	recordAPI "qbsync/internal/app/server/api/http/record"
	syncAPI "qbsync/internal/app/server/api/http/sync"
	"qbsync/internal/domain/record"
)

type Handlers struct {
	Health *healthAPI.Handler
	Record *recordAPI.Handler
	Sync   *syncAPI.Handler
}

// Deps - зависимости API, собранные в main
type Deps struct {
	DB       healthAPI.Pinger
	Records  record.Servicer
	APIToken string
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(chimw.RequestID, chimw.Recoverer)

	config := huma.DefaultConfig("QuickBooks Sync API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(API, deps, log)
	h.Health.SetupRoutes(API)
	h.Record.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(api huma.API, deps Deps, log *slog.Logger) *Handlers {
	authMW := auth.New(api, deps.APIToken, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(deps.DB, len(deps.Records.Types()), log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	recordHandler := recordAPI.NewHandler(deps.Records, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	syncHandler := syncAPI.NewHandler(deps.Records, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Record: recordHandler,
		Sync:   syncHandler,
	}
}
