package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"budget/analytics"
	"budget/config"
)

const advisoryPromptTemplate = `你是一名个人理财顾问。请分析以下财务数据，只给出可执行的建议，并严格按照如下 JSON 格式返回，不要包含 suggestedSavings 或 healthScore：

{
  "suggestions": [
    {
      "type": "warning|alert|info",
      "message": "建议内容"
    }
  ]
}

财务数据：
%s

请结合各类别支出、固定支出、预算执行情况、储蓄率和消费趋势进行分析。只返回 JSON 对象。`

// AdvisoryClient 预算建议客户端，任何失败都回退到本地提示
type AdvisoryClient struct {
	chat *ChatClient
}

// NewAdvisoryClient 创建预算建议客户端
func NewAdvisoryClient(cfg config.AIServiceConfig) *AdvisoryClient {
	return &AdvisoryClient{chat: NewChatClient(cfg)}
}

// Advise 获取预算建议，永不返回错误
// 只采纳 suggestions 字段，返回中的任何数值都会被忽略
func (a *AdvisoryClient) Advise(ctx context.Context, summary analytics.Summary) analytics.AdvisoryResult {
	prompt, err := buildAdvisoryPrompt(summary)
	if err != nil {
		log.Printf("构建建议请求失败: %v", err)
		return analytics.FallbackResult(ReasonMalformedResponse)
	}

	text, err := a.chat.Complete(ctx, prompt)
	if err != nil {
		reason := FailureReason(err)
		if reason != ReasonNotConfigured {
			log.Printf("AI 建议调用失败，使用本地回退: %v", err)
		}
		return analytics.FallbackResult(reason)
	}

	suggestions, err := ParseSuggestions(text)
	if err != nil {
		log.Printf("AI 建议解析失败，使用本地回退: %v", err)
		return analytics.FallbackResult(ReasonMalformedResponse)
	}

	return analytics.AdvisoryResult{
		Suggestions: suggestions,
		Source:      analytics.SourceAI,
	}
}

func buildAdvisoryPrompt(summary analytics.Summary) (string, error) {
	data, err := json.MarshalIndent(summary.FinancialData, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(advisoryPromptTemplate, string(data)), nil
}

// ExtractJSON 截取文本中第一个 { 到最后一个 } 之间的内容
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseSuggestions 从模型输出中解析建议列表
// 没有 JSON、JSON 无效、suggestions 为空或没有有效 message 时返回错误
func ParseSuggestions(text string) ([]analytics.Suggestion, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("未找到 JSON 内容")
	}

	var payload struct {
		Suggestions []struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}

	out := make([]analytics.Suggestion, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		msg := strings.TrimSpace(s.Message)
		if msg == "" {
			continue
		}
		out = append(out, analytics.Suggestion{Type: normalizeSuggestionType(s.Type), Message: msg})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("suggestions 为空")
	}
	return out, nil
}

func normalizeSuggestionType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case analytics.SuggestionWarning:
		return analytics.SuggestionWarning
	case analytics.SuggestionAlert:
		return analytics.SuggestionAlert
	default:
		return analytics.SuggestionInfo
	}
}
