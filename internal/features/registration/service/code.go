package service

import (
	"math/rand"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// GenerateCode возвращает код участника: 6 равновероятных символов из
// [A-Z0-9]. Коллизии с уже выданными кодами не проверяются — при
// пространстве 36^6 и тысячах участников их вероятность пренебрежимо мала.
func GenerateCode() string {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}
