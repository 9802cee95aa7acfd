// cmd/client/cmd/auth/login.go
package auth

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qbsync/cmd/client/cmd/types"
	"qbsync/internal/app/client/crypto"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Сохранить токен доступа QuickBooks",
	Long: `Сохраняет OAuth токен доступа QuickBooks Online на диске.

Токен шифруется ключом, выведенным из парольной фразы (Argon2id),
и расшифровывается при каждой синхронизации.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		token, err := types.ReadSecret("Токен доступа: ")
		if err != nil {
			return fmt.Errorf("ошибка чтения токена: %w", err)
		}
		defer crypto.ClearMemory(token)

		pass, err := types.ReadSecret("Парольная фраза: ")
		if err != nil {
			return fmt.Errorf("ошибка чтения парольной фразы: %w", err)
		}
		defer crypto.ClearMemory(pass)

		confirm, err := types.ReadSecret("Повторите парольную фразу: ")
		if err != nil {
			return fmt.Errorf("ошибка чтения парольной фразы: %w", err)
		}
		defer crypto.ClearMemory(confirm)

		if !bytes.Equal(pass, confirm) {
			return fmt.Errorf("парольные фразы не совпадают")
		}
		if len(pass) < 8 {
			return fmt.Errorf("парольная фраза должна содержать минимум 8 символов")
		}

		if err := app.SaveToken(token, pass); err != nil {
			return fmt.Errorf("ошибка сохранения токена: %w", err)
		}

		color.Green("✓ Токен сохранен")
		return nil
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Удалить сохраненный токен",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.Logout(); err != nil {
			return fmt.Errorf("ошибка удаления токена: %w", err)
		}

		color.Green("✓ Токен удален")
		return nil
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Проверить наличие токена",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(map[string]bool{"authenticated": app.HasToken()})
		}

		if app.HasToken() {
			color.Green("✓ Токен доступа настроен")
		} else {
			color.Yellow("Токен не найден. Выполните: qbsync auth login")
		}
		return nil
	},
}
