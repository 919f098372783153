package util

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost - стоимость хэширования bcrypt
// Выше стандартной: пароли пользователей магазина живут годами
const BcryptCost = 12

// HashPassword хэширует пароль через bcrypt с фиксированной стоимостью
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// CheckPassword проверяет пароль против сохраненного хэша
// Стоимость закодирована в самом хэше, смена BcryptCost старые хэши не ломает
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
