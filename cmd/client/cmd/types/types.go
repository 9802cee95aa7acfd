// Package types общие для команд CLI ключи контекста и помощники вывода
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qbsync/internal/app/client"
)

type contextKey string

const (
	ClientAppKey  contextKey = "app"
	JSONOutputKey contextKey = "json"

	passphraseEnv = "QBSYNC_PASSPHRASE"
)

// App достает приложение из контекста команды
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, errors.New("приложение не инициализировано")
	}
	return app, nil
}

// JSONOutput сообщает, запрошен ли вывод в JSON
func JSONOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Context().Value(JSONOutputKey).(bool)
	return v
}

// PrintJSON печатает значение в stdout с отступами
func PrintJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ReadSecret читает строку без эха, если stdin - терминал
func ReadSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return secret, err
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}

// Passphrase берет парольную фразу из QBSYNC_PASSPHRASE или спрашивает
func Passphrase() ([]byte, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return []byte(p), nil
	}
	return ReadSecret("Парольная фраза: ")
}
