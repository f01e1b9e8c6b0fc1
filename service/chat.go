package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"budget/config"
)

// AI 调用失败原因
const (
	ReasonNotConfigured     = "not_configured"
	ReasonRequestFailed     = "request_failed"
	ReasonBadStatus         = "bad_status"
	ReasonTimeout           = "timeout"
	ReasonEmptyResponse     = "empty_response"
	ReasonMalformedResponse = "malformed_response"
)

// AIError AI 服务调用错误，Reason 用于日志与回退原因
type AIError struct {
	Reason string
	Status int
	Err    error
}

func (e *AIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("AI服务返回错误(%s): %d", e.Reason, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("AI服务调用失败(%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("AI服务调用失败(%s)", e.Reason)
}

func (e *AIError) Unwrap() error {
	return e.Err
}

// FailureReason 提取失败原因，非 AIError 一律视为请求失败
func FailureReason(err error) string {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Reason
	}
	return ReasonRequestFailed
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatClient OpenAI 兼容的 chat/completions 客户端（非流式）
type ChatClient struct {
	cfg        config.AIServiceConfig
	httpClient *http.Client
}

// NewChatClient 创建客户端，超时由每次调用的 context 控制
func NewChatClient(cfg config.AIServiceConfig) *ChatClient {
	return &ChatClient{cfg: cfg, httpClient: &http.Client{}}
}

// Configured 是否启用且配置了服务地址
func (c *ChatClient) Configured() bool {
	return c.cfg.Enabled && c.cfg.BaseURL != ""
}

// Complete 发送单轮对话，返回第一条回复文本
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", &AIError{Reason: ReasonNotConfigured}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	jsonData, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &AIError{Reason: ReasonRequestFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &AIError{Reason: ReasonTimeout, Err: err}
		}
		return "", &AIError{Reason: ReasonRequestFailed, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &AIError{Reason: ReasonTimeout, Err: err}
		}
		return "", &AIError{Reason: ReasonRequestFailed, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AIError{Reason: ReasonBadStatus, Status: resp.StatusCode}
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &AIError{Reason: ReasonMalformedResponse, Err: err}
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", &AIError{Reason: ReasonEmptyResponse}
	}

	return out.Choices[0].Message.Content, nil
}
