package services

import "errors"

// Сентинельные ошибки, чтобы контроллеры различали 404 и 500
// без разбора текста ошибок
var (
	ErrBedroomNotFound = errors.New("bedroom not found")
	ErrRecordNotFound  = errors.New("environment record not found")
)
