package iocli

import (
	"fmt"
	"strings"
)

//go:generate moq -out io_mock.go . IO

// IO ввод-вывод команд CLI
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}

// Confirm спрашивает подтверждение действия. Согласием считаются y и yes.
func Confirm(io IO, prompt string) (bool, error) {
	answer, err := io.ReadInput(fmt.Sprintf("%s [y/N]: ", prompt))
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
