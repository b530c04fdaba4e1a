package notify

import (
	"context"
	"fmt"
	"time"

	"eldercare-data/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Channel 消息下发渠道
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

// Message 下发给网关的消息
type Message struct {
	Channel Channel `json:"channel"`
	Phone   string  `json:"phone"`
	Body    string  `json:"body"`
}

// gatewayResponse 网关统一响应
type gatewayResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// Sender 消息发送接口
type Sender interface {
	// Send 按用户的 receipt_type 选择渠道下发
	Send(ctx context.Context, user *domain.User, body string) error
}

// GatewayClient 消息网关 API 客户端（WhatsApp/SMS 由网关侧实际下发）
type GatewayClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewGatewayClient 创建消息网关客户端
func NewGatewayClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *GatewayClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}

	return &GatewayClient{
		httpClient: client,
		logger:     logger,
	}
}

// Send 按用户的 receipt_type 下发：1=WhatsApp 2=SMS 3=两者
func (c *GatewayClient) Send(ctx context.Context, user *domain.User, body string) error {
	channels := channelsFor(user)
	if len(channels) == 0 {
		return nil
	}
	for _, ch := range channels {
		if err := c.send(ctx, Message{Channel: ch, Phone: user.Phone, Body: body}); err != nil {
			return err
		}
	}
	return nil
}

func (c *GatewayClient) send(ctx context.Context, msg Message) error {
	var response gatewayResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&response).
		Post("/api/v1/messages")

	if err != nil {
		c.logger.Error("message gateway call failed",
			zap.Error(err),
			zap.String("channel", string(msg.Channel)),
		)
		return fmt.Errorf("failed to call message gateway: %w", err)
	}
	if resp.IsError() || response.Status != 0 {
		c.logger.Error("message gateway returned error",
			zap.Int("http_status", resp.StatusCode()),
			zap.Int("status", response.Status),
			zap.String("msg", response.Msg),
		)
		return fmt.Errorf("message gateway error: %s (status: %d)", response.Msg, response.Status)
	}

	c.logger.Info("message dispatched",
		zap.String("channel", string(msg.Channel)),
		zap.String("phone", msg.Phone),
	)
	return nil
}

func channelsFor(user *domain.User) []Channel {
	if !user.ReceiptType.Valid {
		return nil
	}
	switch int(user.ReceiptType.Int32) {
	case domain.ReceiptWhatsApp:
		return []Channel{ChannelWhatsApp}
	case domain.ReceiptSMS:
		return []Channel{ChannelSMS}
	case domain.ReceiptAll:
		return []Channel{ChannelWhatsApp, ChannelSMS}
	default:
		return nil
	}
}

// NopSender 禁用网关时的占位实现
type NopSender struct{}

func (NopSender) Send(context.Context, *domain.User, string) error { return nil }
