// cmd/client/cmd/record/get.go
package record

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qbsync/cmd/client/cmd/types"
	"qbsync/internal/domain/record"
)

var showRemote bool

var GetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Просмотреть запись",
	Long: `Просмотр записи по ID.

С флагом --remote дополнительно читается связанная сущность QuickBooks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		rec, err := app.Records().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка получения записи: %w", err)
		}

		if !showRemote {
			if types.JSONOutput(cmd) {
				return types.PrintJSON(rec)
			}
			printRecordHuman(rec)
			return nil
		}

		if err := app.Connect(types.Passphrase); err != nil {
			return err
		}
		remote, err := app.Records().FetchRemote(cmd.Context(), rec.ID)
		if err != nil {
			return fmt.Errorf("ошибка чтения из QuickBooks: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(map[string]any{"record": rec, "remote": remote})
		}

		printRecordHuman(rec)
		fmt.Println("=== QuickBooks ===")
		fmt.Printf("Id:          %s\n", remote.ID)
		fmt.Printf("SyncToken:   %s\n", remote.SyncToken)
		printAttributes(remote.Attributes)
		return nil
	},
}

func printRecordHuman(rec *record.Record) {
	fmt.Printf("ID:          %s\n", rec.ID)
	fmt.Printf("Тип:         %s\n", rec.Type)
	fmt.Printf("Название:    %s\n", title(rec.Attributes))
	if rec.QuickBooksID != nil {
		fmt.Printf("QuickBooks:  %s\n", *rec.QuickBooksID)
	}
	fmt.Printf("Создано:     %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Обновлено:   %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))

	if rec.IsPending() {
		color.Yellow("Статус:      ожидает синхронизации")
	} else {
		color.Green("Статус:      синхронизирована")
	}
	fmt.Println()
	printAttributes(rec.Attributes)
	fmt.Println()
}

func printAttributes(attrs map[string]any) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, attrs[k])
	}
}

func init() {
	GetCmd.Flags().BoolVar(&showRemote, "remote", false, "прочитать сущность из QuickBooks")
}
