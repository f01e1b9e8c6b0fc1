package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"budget/config"
	"budget/models"

	"golang.org/x/text/cases"
)

// CategoryPredictor 根据消费描述预测类别
type CategoryPredictor struct {
	chat *ChatClient
}

// NewCategoryPredictor 创建类别预测器
func NewCategoryPredictor(cfg config.AIServiceConfig) *CategoryPredictor {
	return &CategoryPredictor{chat: NewChatClient(cfg)}
}

func buildPredictPrompt(description string, labels []string) string {
	var b strings.Builder
	b.WriteString("可选的消费类别：\n")
	for _, l := range labels {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n消费描述：\"%s\"，请从上面的列表中选出最合适的类别，只返回类别名称。", description)
	return b.String()
}

// Predict 返回模型给出的原始类别文本
func (p *CategoryPredictor) Predict(ctx context.Context, description string, labels []string) (string, error) {
	if strings.TrimSpace(description) == "" || len(labels) == 0 {
		return "", fmt.Errorf("描述和候选类别不能为空")
	}
	text, err := p.chat.Complete(ctx, buildPredictPrompt(description, labels))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// PredictCategory 预测并匹配到已有类别，任何失败都返回 Other
func (p *CategoryPredictor) PredictCategory(ctx context.Context, description string, labels []string) string {
	predicted, err := p.Predict(ctx, description, labels)
	if err != nil {
		if FailureReason(err) != ReasonNotConfigured {
			log.Printf("类别预测失败: %v", err)
		}
		return models.CategoryOther
	}
	return MatchCategory(predicted, labels)
}

// MatchCategory 将预测结果匹配到已有类别
// 忽略大小写，双向子串包含即视为匹配，按 labels 顺序取第一个；都不匹配返回 Other
func MatchCategory(predicted string, labels []string) string {
	// Caser 有内部状态，不能跨 goroutine 共享
	folder := cases.Fold()
	p := folder.String(strings.TrimSpace(predicted))
	if p == "" {
		return models.CategoryOther
	}
	for _, label := range labels {
		l := folder.String(label)
		if l == "" {
			continue
		}
		if strings.Contains(l, p) || strings.Contains(p, l) {
			return label
		}
	}
	return models.CategoryOther
}
