package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nerufirm/appneruf/internal/chatwork"
	httpapi "github.com/nerufirm/appneruf/internal/http"
)

const syncPath = "/api/chatwork-sync"

// syncResult 同步接口的成功响应
type syncResult struct {
	Message      string   `json:"message"`
	Inserted     int      `json:"inserted"`
	Skipped      int      `json:"skipped"`
	SkippedNames []string `json:"skippedNames"`
}

type syncError struct {
	Error string `json:"error"`
}

// syncClient 调用 appneruf-data 的聊天同步接口
type syncClient struct {
	http *resty.Client
}

func newSyncClient(baseURL, secret string, timeout time.Duration) *syncClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(httpapi.WebhookSecretHeader, secret)
	// 只对连接错误和 5xx 重试；upsert 按 id 幂等
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})
	return &syncClient{http: client}
}

// Push 发送一批记录
func (c *syncClient) Push(ctx context.Context, entries []chatwork.RawChatEntry) (*syncResult, error) {
	var result syncResult
	var failure syncError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(entries).
		SetResult(&result).
		SetError(&failure).
		Post(syncPath)
	if err != nil {
		return nil, fmt.Errorf("failed to call sync endpoint: %w", err)
	}
	if resp.IsError() {
		msg := failure.Error
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("sync endpoint returned %d: %s", resp.StatusCode(), msg)
	}
	return &result, nil
}
