// cmd/client/cmd/record/create.go
package record

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qbsync/cmd/client/cmd/types"
	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
)

var (
	createType  string
	createAttrs []string
	createFile  string
	createSync  bool
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать запись",
	Long: `Создание локальной записи поддерживаемого типа QuickBooks.

Атрибуты задаются парами --attr key=value или JSON файлом --file.
Пример:
  qbsync record create -t Vendor --attr DisplayName=Acme --sync`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		attrs, err := parseAttributes(createFile, createAttrs)
		if err != nil {
			return err
		}

		rec, err := app.Records().Create(cmd.Context(), record.CreateRequest{
			Type:       resource.Type(createType),
			Attributes: attrs,
		})
		if err != nil {
			return fmt.Errorf("ошибка создания записи: %w", err)
		}

		if createSync {
			if err := app.Connect(types.Passphrase); err != nil {
				return err
			}
			if _, err := app.Sync().SyncRecord(cmd.Context(), rec.ID); err != nil {
				return fmt.Errorf("запись %s создана, но не синхронизирована: %w", rec.ID, err)
			}
			if rec, err = app.Records().Get(cmd.Context(), rec.ID); err != nil {
				return err
			}
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(rec)
		}

		color.Green("✓ Запись создана: %s", rec.ID)
		if rec.QuickBooksID != nil {
			fmt.Printf("QuickBooks ID: %s\n", *rec.QuickBooksID)
		}
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Обновить атрибуты записи",
	Long: `Заменяет атрибуты записи. Синхронизированная запись снова становится
ожидающей и будет обновлена в QuickBooks при следующей синхронизации.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		attrs, err := parseAttributes(createFile, createAttrs)
		if err != nil {
			return err
		}

		rec, err := app.Records().Update(cmd.Context(), args[0], record.UpdateRequest{Attributes: attrs})
		if err != nil {
			return fmt.Errorf("ошибка обновления записи: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(rec)
		}

		color.Green("✓ Запись обновлена: %s", rec.ID)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&createType, "type", "t", "", "тип сущности QuickBooks (см. qbsync record types)")
	CreateCmd.Flags().StringArrayVarP(&createAttrs, "attr", "a", nil, "атрибут key=value")
	CreateCmd.Flags().StringVarP(&createFile, "file", "f", "", "JSON файл с атрибутами")
	CreateCmd.Flags().BoolVar(&createSync, "sync", false, "сразу синхронизировать с QuickBooks")
	_ = CreateCmd.MarkFlagRequired("type")

	UpdateCmd.Flags().StringArrayVarP(&createAttrs, "attr", "a", nil, "атрибут key=value")
	UpdateCmd.Flags().StringVarP(&createFile, "file", "f", "", "JSON файл с атрибутами")
}
