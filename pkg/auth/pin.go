package auth

import (
	"errors"
	"os"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingPINHash = errors.New("hash do PIN de gerente não configurado")
	ErrInvalidPIN     = errors.New("PIN de gerente inválido")
)

// ManagerPINHashFromEnv lê o hash bcrypt do PIN de gerente exigido em
// devoluções e ajustes manuais de estoque
func ManagerPINHashFromEnv() string {
	return os.Getenv("REFUND_MANAGER_PIN_HASH")
}

// CheckManagerPIN compara o PIN informado com o hash bcrypt configurado
func CheckManagerPIN(hash, pin string) error {
	if hash == "" {
		return ErrMissingPINHash
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrInvalidPIN
	}
	return nil
}

// HashManagerPIN gera o hash bcrypt de um PIN (uso em provisionamento)
func HashManagerPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
