package client

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/slog"

	"qbsync/internal/app/client/config"
	"qbsync/internal/app/client/crypto"
	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
	"qbsync/internal/domain/sync"
	"qbsync/internal/infrastructure/quickbooks"
	"qbsync/internal/infrastructure/storage/memory"
	"qbsync/internal/infrastructure/storage/sqlite"
)

// PassphraseFunc запрашивает парольную фразу у пользователя
type PassphraseFunc func() ([]byte, error)

type App struct {
	config   *config.Config
	log      *slog.Logger
	vault    *crypto.TokenVault
	storage  *sqlite.Storage
	remote   *remoteProxy
	registry *resource.Registry
	records  record.Servicer
	sync     *SyncService
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	remote := &remoteProxy{}

	registry, err := resource.Bind(remote)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания реестра сущностей: %w", err)
	}

	app := &App{
		config:   cfg,
		log:      log,
		vault:    crypto.NewTokenVault(cfg.TokenPath, crypto.DefaultKDFParams()),
		remote:   remote,
		registry: registry,
	}

	// Инициализируем локальное хранилище (используем SQLite)
	var repo record.Repository
	storage, err := sqlite.Open(cfg.DataPath)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		repo = memory.NewRecordRepository()
	} else {
		app.storage = storage
		repo = sqlite.NewRecordRepository(storage)
	}

	engine := sync.NewEngine(registry, log)
	app.records = record.NewService(repo, engine, registry, log)
	app.sync = NewSyncService(app.records, log)

	return app, nil
}

// Records возвращает сервис локальных записей
func (a *App) Records() record.Servicer {
	return a.records
}

// Sync возвращает сервис синхронизации
func (a *App) Sync() *SyncService {
	return a.sync
}

// Types возвращает поддерживаемые типы сущностей
func (a *App) Types() []resource.Type {
	return a.registry.Types()
}

// Connect подключает клиент QuickBooks.
// QB_ACCESS_TOKEN имеет приоритет над сохраненным токеном.
func (a *App) Connect(passphrase PassphraseFunc) error {
	if a.remote.connected() {
		return nil
	}

	qbCfg := a.config.QuickBooks
	if qbCfg.AccessToken == "" {
		token, err := a.loadToken(passphrase)
		if err != nil {
			return err
		}
		qbCfg.AccessToken = string(token)
		crypto.ClearMemory(token)
	}

	qb, err := quickbooks.NewClient(qbCfg, a.log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации клиента QuickBooks: %w", err)
	}

	a.ConnectWith(qb)
	return nil
}

// ConnectWith подключает готовую реализацию удаленного API
func (a *App) ConnectWith(api resource.RemoteAPI) {
	a.remote.set(api)
	a.log.Debug("Клиент QuickBooks подключен")
}

func (a *App) loadToken(passphrase PassphraseFunc) ([]byte, error) {
	if !a.vault.Exists() {
		return nil, ErrNotConnected
	}

	pass, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения парольной фразы: %w", err)
	}
	defer crypto.ClearMemory(pass)

	token, err := a.vault.Open(pass)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenNotFound) {
			return nil, ErrNotConnected
		}
		return nil, err
	}
	return token, nil
}

// SaveToken шифрует и сохраняет токен доступа QuickBooks
func (a *App) SaveToken(token, passphrase []byte) error {
	if len(token) == 0 {
		return errors.New("токен не может быть пустым")
	}
	if len(passphrase) == 0 {
		return errors.New("парольная фраза не может быть пустой")
	}

	if err := a.vault.Seal(token, passphrase); err != nil {
		return err
	}

	a.log.Info("Токен QuickBooks сохранен", "path", a.config.TokenPath)
	return nil
}

// Logout удаляет сохраненный токен
func (a *App) Logout() error {
	return a.vault.Remove()
}

// HasToken сообщает, сохранен ли токен или задан QB_ACCESS_TOKEN
func (a *App) HasToken() bool {
	return a.config.QuickBooks.AccessToken != "" || a.vault.Exists()
}

func (a *App) Shutdown(_ context.Context) {
	a.log.Debug("Завершение работы клиента...")

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ошибка закрытия базы данных: %v\n", err)
		}
	}
}
