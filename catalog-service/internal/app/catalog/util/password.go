package util

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword хэширует пароль bcrypt с заданной стоимостью
func HashPassword(password string, cost int) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPassword проверяет, соответствует ли пароль хэшу.
// Некорректный формат хэша дает false, а не ошибку.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
