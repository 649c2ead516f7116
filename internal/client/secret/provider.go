package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/gophadmin/internal/client/iocli"
)

// EnvSecretKey переменная окружения с ключом подписи
const EnvSecretKey = "GOPHADMIN_SECRET_KEY"

// ErrNoSecret ни один источник не дал ключ
var ErrNoSecret = errors.New("signing secret is not configured")

// Source откуда получен ключ
type Source string

const (
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceFlag    Source = "flag"
	SourceProfile Source = "profile"
	SourcePrompt  Source = "prompt"
)

// Provider выбирает ключ подписи по приоритету:
// переменная окружения, файл, флаг, профиль (с вводом парольной фразы),
// интерактивный ввод.
type Provider struct {
	Lookup   func(key string) (string, bool)
	ReadFile func(path string) ([]byte, error)
	Store    *Store   // nil - профиль не используется
	IO       iocli.IO // nil - интерактивный ввод недоступен
	File     string
	Flag     string
}

// NewProvider создает Provider, читающий окружение и файлы ОС
func NewProvider(store *Store, io iocli.IO, file, flag string) *Provider {
	return &Provider{
		Lookup:   os.LookupEnv,
		ReadFile: os.ReadFile,
		Store:    store,
		IO:       io,
		File:     file,
		Flag:     flag,
	}
}

// Resolve возвращает ключ и его источник
func (p *Provider) Resolve(ctx context.Context) (string, Source, error) {
	if p.Lookup != nil {
		if v, ok := p.Lookup(EnvSecretKey); ok && v != "" {
			return v, SourceEnv, nil
		}
	}

	if p.File != "" {
		data, err := p.ReadFile(p.File)
		if err != nil {
			return "", SourceFile, fmt.Errorf("failed to read secret file: %w", err)
		}
		v := strings.TrimSpace(string(data))
		if v == "" {
			return "", SourceFile, fmt.Errorf("secret file %s is empty", p.File)
		}
		return v, SourceFile, nil
	}

	if p.Flag != "" {
		return p.Flag, SourceFlag, nil
	}

	if p.Store != nil {
		stored, err := p.Store.Has(ctx)
		if err != nil {
			return "", SourceProfile, err
		}
		if stored {
			if p.IO == nil {
				return "", SourceProfile, fmt.Errorf("%w: stored secret needs a passphrase", ErrNoSecret)
			}
			passphrase, err := p.IO.ReadPassword("Passphrase: ")
			if err != nil {
				return "", SourceProfile, fmt.Errorf("failed to read passphrase: %w", err)
			}
			v, err := p.Store.Open(ctx, passphrase)
			if err != nil {
				return "", SourceProfile, fmt.Errorf("failed to open stored secret: %w", err)
			}
			return v, SourceProfile, nil
		}
	}

	if p.IO != nil {
		v, err := p.IO.ReadPassword("Signing secret: ")
		if err != nil {
			return "", SourcePrompt, fmt.Errorf("failed to read secret: %w", err)
		}
		if v == "" {
			return "", SourcePrompt, ErrNoSecret
		}
		return v, SourcePrompt, nil
	}

	return "", "", ErrNoSecret
}
