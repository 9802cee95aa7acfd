package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// Параметры Argon2id
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = chacha20poly1305.KeySize
	saltLength    = 16

	tokenVersion     = 1
	tokenPermissions = 0600
)

var (
	ErrTokenNotFound   = errors.New("токен не найден")
	ErrWrongPassphrase = errors.New("неверная парольная фраза или поврежденный файл токена")
)

// KDFParams параметры получения ключа из парольной фразы
type KDFParams struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
}

// DefaultKDFParams параметры по умолчанию
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:    argon2Time,
		Memory:  argon2Memory,
		Threads: argon2Threads,
	}
}

// sealedToken - формат файла с зашифрованным токеном
type sealedToken struct {
	Version    int       `json:"version"`
	Algorithm  string    `json:"algorithm"`
	KDF        KDFParams `json:"kdf"`
	Salt       string    `json:"salt"`
	Nonce      string    `json:"nonce"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenVault хранит токен доступа QuickBooks в файле,
// зашифрованным ключом из парольной фразы
type TokenVault struct {
	path   string
	params KDFParams
}

func NewTokenVault(path string, params KDFParams) *TokenVault {
	return &TokenVault{path: path, params: params}
}

// Exists сообщает, сохранен ли токен
func (v *TokenVault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// Seal шифрует токен и атомарно записывает его в файл
func (v *TokenVault) Seal(token, passphrase []byte) error {
	salt, err := GenerateRandomBytes(saltLength)
	if err != nil {
		return err
	}

	key := deriveKey(passphrase, salt, v.params)
	defer ClearMemory(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("ошибка создания шифра: %w", err)
	}

	nonce, err := GenerateRandomBytes(aead.NonceSize())
	if err != nil {
		return err
	}

	sealed := sealedToken{
		Version:    tokenVersion,
		Algorithm:  "argon2id+xchacha20poly1305",
		KDF:        v.params,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, token, []byte(sealedAD))),
		CreatedAt:  time.Now().UTC(),
	}

	data, err := json.MarshalIndent(sealed, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(v.path), 0700); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}

	tmp := v.path + ".tmp"
	if err := os.WriteFile(tmp, data, tokenPermissions); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return os.Rename(tmp, v.path)
}

// Open расшифровывает сохраненный токен
func (v *TokenVault) Open(passphrase []byte) ([]byte, error) {
	data, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("ошибка чтения токена: %w", err)
	}

	var sealed sealedToken
	if err := json.Unmarshal(data, &sealed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}
	if sealed.Version != tokenVersion {
		return nil, fmt.Errorf("неподдерживаемая версия файла токена: %d", sealed.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(sealed.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: salt", ErrWrongPassphrase)
	}
	nonce, err := base64.StdEncoding.DecodeString(sealed.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce", ErrWrongPassphrase)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext", ErrWrongPassphrase)
	}

	key := deriveKey(passphrase, salt, sealed.KDF)
	defer ClearMemory(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания шифра: %w", err)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce size", ErrWrongPassphrase)
	}

	token, err := aead.Open(nil, nonce, ciphertext, []byte(sealedAD))
	if err != nil {
		return nil, ErrWrongPassphrase
	}

	return token, nil
}

// Remove удаляет файл токена
func (v *TokenVault) Remove() error {
	if err := os.Remove(v.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	return nil
}

const sealedAD = "qbsync-token-v1"

func deriveKey(passphrase, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.Memory, p.Threads, argon2KeyLen)
}
