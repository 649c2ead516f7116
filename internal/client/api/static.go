package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/iudanet/gophadmin/internal/client/resolver"
	"github.com/iudanet/gophadmin/internal/validation"
	"github.com/iudanet/gophadmin/pkg/api"
)

// LookupStatic загружает статический файл с первой реплики, которая его отдает
func (c *Client) LookupStatic(ctx context.Context, fileName string) (*resolver.RawResult, error) {
	if err := validation.FileName(fileName); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("fileName", fileName)

	res, err := c.resolver.Fetch(ctx, c.readBuilder(target("/static/lookup", q)))
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", fileName, err)
	}
	return res, nil
}

// UploadFile загружает файл на реплику. Размер проверяется до отправки.
func (c *Client) UploadFile(ctx context.Context, fileName string, content []byte) (*api.UploadResponse, error) {
	if err := validation.FileName(fileName); err != nil {
		return nil, err
	}
	if err := validation.UploadSize(int64(len(content))); err != nil {
		return nil, err
	}

	res, err := c.upload(ctx, "/static/upload", fileName, content)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", fileName, err)
	}
	return decodeOne[api.UploadResponse](res, "upload "+fileName)
}
