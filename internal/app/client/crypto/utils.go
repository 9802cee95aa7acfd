package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// ClearMemory затирает чувствительные данные из памяти
func ClearMemory(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// GenerateRandomBytes генерирует криптографически безопасные случайные байты
func GenerateRandomBytes(size int) ([]byte, error) {
	bytes := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return bytes, nil
}
