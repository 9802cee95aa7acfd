package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для операций с токеном QuickBooks
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление доступом к QuickBooks",
	Long:  `Сохранение, проверка и удаление токена доступа QuickBooks Online.`,
}
