package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qbsync/cmd/client/cmd/types"
	"qbsync/internal/app/client"
	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
	domainSync "qbsync/internal/domain/sync"
)

var (
	syncType   string
	retries    uint64
	retryDelay time.Duration
	limit      int
)

var SyncCmd = &cobra.Command{
	Use:   "sync [id]",
	Short: "Синхронизация с QuickBooks",
	Long: `Синхронизация локальных записей с QuickBooks Online.

Без аргумента синхронизируются все ожидающие записи, с ID только одна.
Временные ошибки (сеть, лимит запросов, 5xx) повторяются с экспоненциальной
задержкой, ошибки валидации не повторяются.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.Connect(types.Passphrase); err != nil {
			return err
		}

		svc := app.Sync().WithRetry(client.RetryConfig{
			MaxRetries:      retries,
			InitialInterval: retryDelay,
			MaxInterval:     30 * time.Second,
		})

		if len(args) == 1 {
			return syncOne(cmd, svc, args[0])
		}
		return syncPending(cmd, svc)
	},
}

func syncOne(cmd *cobra.Command, svc *client.SyncService, id string) error {
	result, err := svc.SyncRecord(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, domainSync.ErrApplyRemoteID) && result != nil {
			color.Red("Сущность создана в QuickBooks (Id %s), но ID не сохранен локально", result.RemoteID)
		}
		return describe(err)
	}

	if types.JSONOutput(cmd) {
		return types.PrintJSON(result)
	}

	color.Green("✓ %s %s: QuickBooks Id %s (%v)",
		result.Type, result.Operation, result.RemoteID, result.Duration.Round(time.Millisecond))
	return nil
}

func syncPending(cmd *cobra.Command, svc *client.SyncService) error {
	start := time.Now()

	batch, err := svc.SyncPending(cmd.Context(), record.Filter{
		Type:  resource.Type(syncType),
		Limit: limit,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}
	if batch == nil {
		return err
	}

	if types.JSONOutput(cmd) {
		return types.PrintJSON(batch)
	}

	if batch.Total == 0 {
		fmt.Println("Нет записей, ожидающих синхронизации")
		return nil
	}

	for _, r := range batch.Synced {
		color.Green("✓ %s %s %s -> %s", r.LocalID, r.Type, r.Operation, r.RemoteID)
	}
	for _, f := range batch.Failed {
		mark := color.RedString("✗")
		if f.Retryable {
			mark = color.YellowString("!")
		}
		fmt.Printf("%s %s: %s\n", mark, f.RecordID, f.Error)
	}

	fmt.Println()
	fmt.Printf("Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Всего: %d, синхронизировано: %d, ошибок: %d\n",
		batch.Total, len(batch.Synced), len(batch.Failed))

	if len(batch.Failed) > 0 {
		return fmt.Errorf("не синхронизировано записей: %d", len(batch.Failed))
	}
	return err
}

// describe добавляет к ошибке подсказку по ее классу
func describe(err error) error {
	var fault *resource.Fault
	if errors.As(err, &fault) && (fault.StatusCode == http.StatusUnauthorized || fault.StatusCode == http.StatusForbidden) {
		return fmt.Errorf("%w\nТокен QuickBooks недействителен, обновите его: qbsync auth login", err)
	}

	switch {
	case errors.Is(err, domainSync.ErrRemoteValidation):
		return fmt.Errorf("%w\nQuickBooks отклонил данные записи, исправьте атрибуты: qbsync record update", err)
	case errors.Is(err, domainSync.ErrRemoteEntityGone):
		return fmt.Errorf("%w\nСущность удалена в QuickBooks", err)
	case errors.Is(err, client.ErrNotConnected):
		return err
	case domainSync.Retryable(err):
		return fmt.Errorf("%w\nВременная ошибка, повторите позже", err)
	default:
		return err
	}
}

func init() {
	SyncCmd.Flags().StringVarP(&syncType, "type", "t", "", "синхронизировать только записи этого типа")
	SyncCmd.Flags().Uint64Var(&retries, "retries", 3, "количество повторов временных ошибок")
	SyncCmd.Flags().DurationVar(&retryDelay, "retry-delay", 500*time.Millisecond, "начальная задержка между повторами")
	SyncCmd.Flags().IntVar(&limit, "limit", 0, "максимум записей за один запуск")
}
