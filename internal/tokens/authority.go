package tokens

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrGenerate возвращается, когда не удалось получить случайные байты
	ErrGenerate = errors.New("tokens: failed to generate token")
)

// tokenBytes длина токена в байтах до hex-кодирования (256 бит энтропии)
const tokenBytes = 32

// Triple три независимых токена-возможности одного бронирования
// Каждый токен привязан ровно к одному переходу состояния
type Triple struct {
	Confirm    string
	Cancel     string
	Reschedule string
}

// Mint генерирует один непредсказуемый токен
func Mint() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	return hex.EncodeToString(buf), nil
}

// MintTriple генерирует полный набор токенов для нового бронирования
// Токены никогда не переиспользуются: при переносе бронирования новая
// запись получает новую тройку, а токены старой записи перестают работать
// вместе с ее терминальным статусом
func MintTriple() (Triple, error) {
	confirm, err := Mint()
	if err != nil {
		return Triple{}, err
	}
	cancel, err := Mint()
	if err != nil {
		return Triple{}, err
	}
	reschedule, err := Mint()
	if err != nil {
		return Triple{}, err
	}
	return Triple{Confirm: confirm, Cancel: cancel, Reschedule: reschedule}, nil
}

// Matches сравнивает предъявленный токен с сохраненным значением
// Сравнение выполняется за константное время
func Matches(presented, stored string) bool {
	if presented == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}

// Authority внедряемая обертка над выпуском и сравнением токенов
type Authority struct{}

// NewAuthority создает новый экземпляр Authority
func NewAuthority() *Authority {
	return &Authority{}
}

// MintTriple генерирует полный набор токенов для нового бронирования
func (*Authority) MintTriple() (Triple, error) {
	return MintTriple()
}

// Matches сравнивает предъявленный токен с сохраненным значением
func (*Authority) Matches(presented, stored string) bool {
	return Matches(presented, stored)
}
