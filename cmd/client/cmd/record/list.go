// cmd/client/cmd/record/list.go
package record

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"qbsync/cmd/client/cmd/types"
	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
)

var (
	listType    string
	listFormat  string
	listPending bool
	limit       int
	offset      int
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список записей",
	Long: `Просмотр списка записей с фильтрацией по типу и статусу синхронизации.

Поддерживается пагинация через флаги --limit и --offset.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		records, err := app.Records().List(cmd.Context(), record.Filter{
			Type:    resource.Type(listType),
			Pending: listPending,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return fmt.Errorf("ошибка получения списка записей: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(records)
		}

		switch listFormat {
		case "json":
			return types.PrintJSON(records)
		case "csv":
			printRecordsCSV(records)
			return nil
		default:
			return printRecordsTable(records)
		}
	},
}

func printRecordsTable(records []*record.Record) error {
	if len(records) == 0 {
		fmt.Println("Записи не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tТип\tНазвание\tQuickBooks ID\tСтатус\tОбновлено\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t\n")

	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			rec.ID,
			rec.Type,
			truncate(title(rec.Attributes), 30),
			remoteID(rec),
			status(rec),
			rec.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nВсего записей: %d\n", len(records))
	return nil
}

func printRecordsCSV(records []*record.Record) {
	fmt.Println("ID,Type,Title,QuickBooksID,Status,UpdatedAt")

	for _, rec := range records {
		fmt.Printf("%s,%s,%q,%s,%s,%s\n",
			rec.ID,
			rec.Type,
			title(rec.Attributes),
			remoteID(rec),
			status(rec),
			rec.UpdatedAt.Format(time.RFC3339),
		)
	}
}

func remoteID(rec *record.Record) string {
	if rec.QuickBooksID == nil {
		return "-"
	}
	return *rec.QuickBooksID
}

func status(rec *record.Record) string {
	if rec.IsPending() {
		return "pending"
	}
	return "synced"
}

func init() {
	ListCmd.Flags().StringVarP(&listType, "type", "t", "", "фильтр по типу записи")
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "формат вывода (table, json, csv)")
	ListCmd.Flags().BoolVar(&listPending, "pending", false, "только ожидающие синхронизации")
	ListCmd.Flags().IntVar(&limit, "limit", 50, "ограничение количества записей")
	ListCmd.Flags().IntVar(&offset, "offset", 0, "смещение для пагинации")
}
