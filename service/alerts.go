package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"budget/analytics"
	"budget/config"

	"github.com/rabbitmq/amqp091-go"
)

// EventOverLimit 类别超出预算事件
const EventOverLimit = "budget.over_limit"

// OverLimitMessage 超支告警消息
type OverLimitMessage struct {
	Event         string    `json:"event"`
	UserID        uint      `json:"user_id"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Limit         float64   `json:"limit"`
	OverageAmount float64   `json:"overage_amount"`
	WindowStart   string    `json:"window_start"`
	WindowEnd     string    `json:"window_end"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewOverLimitMessages 为每个超支类别生成一条告警
func NewOverLimitMessages(userID uint, insights *analytics.BudgetInsights) []OverLimitMessage {
	var out []OverLimitMessage
	now := time.Now()
	for _, c := range insights.OverBudget() {
		out = append(out, OverLimitMessage{
			Event:         EventOverLimit,
			UserID:        userID,
			Category:      c.Category,
			Amount:        c.Amount,
			Limit:         c.Limit,
			OverageAmount: c.OverageAmount,
			WindowStart:   insights.StartDate,
			WindowEnd:     insights.EndDate,
			Timestamp:     now,
		})
	}
	return out
}

// ToJSON 序列化消息
func (m *OverLimitMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertPublisher 预算告警发布
type AlertPublisher interface {
	PublishOverLimit(ctx context.Context, msgs []OverLimitMessage) error
	Close() error
}

// NewAlertPublisher 根据配置创建发布器，未启用时返回空实现
func NewAlertPublisher(cfg config.AMQPConfig) (AlertPublisher, error) {
	if !cfg.Enabled {
		return NoopAlertPublisher{}, nil
	}
	p, err := NewAMQPAlertPublisher(cfg.URL, cfg.Exchange, cfg.Queue)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// NoopAlertPublisher 不发送任何消息
type NoopAlertPublisher struct{}

func (NoopAlertPublisher) PublishOverLimit(context.Context, []OverLimitMessage) error { return nil }

func (NoopAlertPublisher) Close() error { return nil }

// AMQPAlertPublisher 通过 RabbitMQ direct exchange 发布告警
type AMQPAlertPublisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewAMQPAlertPublisher 连接并声明 exchange / queue
func NewAMQPAlertPublisher(url, exchangeName, queueName string) (*AMQPAlertPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接 AMQP 失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开 AMQP channel 失败: %w", err)
	}

	p := &AMQPAlertPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}
	if err := p.setup(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *AMQPAlertPublisher) setup() error {
	if err := p.channel.ExchangeDeclare(p.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明 exchange 失败: %w", err)
	}
	if _, err := p.channel.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明 queue 失败: %w", err)
	}
	// routing key 与队列名相同
	if err := p.channel.QueueBind(p.queueName, p.queueName, p.exchangeName, false, nil); err != nil {
		return fmt.Errorf("绑定 queue 失败: %w", err)
	}
	return nil
}

// PublishOverLimit 逐条发布持久化消息
func (p *AMQPAlertPublisher) PublishOverLimit(ctx context.Context, msgs []OverLimitMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for i := range msgs {
		body, err := msgs[i].ToJSON()
		if err != nil {
			return fmt.Errorf("序列化告警消息失败: %w", err)
		}
		err = p.channel.PublishWithContext(ctx, p.exchangeName, p.queueName, false, false, amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msgs[i].Timestamp,
			Type:         msgs[i].Event,
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("发布告警消息失败: %w", err)
		}
	}

	log.Printf("已发布 %d 条预算超支告警 (exchange=%s, queue=%s)", len(msgs), p.exchangeName, p.queueName)
	return nil
}

// Close 关闭 channel 与连接
func (p *AMQPAlertPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
