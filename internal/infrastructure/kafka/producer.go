package kafka

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/event"
	"github.com/segmentio/kafka-go"
)

const (
	TopicSales   = "pdv.sales"
	TopicRefunds = "pdv.refunds"
)

// Producer publica eventos do motor de vendas em tópicos Kafka
type Producer struct {
	sales   *kafka.Writer
	refunds *kafka.Writer
}

// NewProducer cria um publicador para os brokers informados
func NewProducer(brokers []string) *Producer {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		}
	}

	return &Producer{
		sales:   newWriter(TopicSales),
		refunds: newWriter(TopicRefunds),
	}
}

// NewPublisherFromEnv cria o publicador a partir de KAFKA_BROKERS;
// quando a variável está vazia a publicação é desativada
func NewPublisherFromEnv() event.Publisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return event.NoopPublisher{}
	}
	return NewProducer(strings.Split(brokers, ","))
}

// PublishSaleCompleted publica o evento de venda concluída
func (p *Producer) PublishSaleCompleted(ctx context.Context, ev event.SaleCompleted) error {
	return publish(ctx, p.sales, ev.SaleID, ev)
}

// PublishRefundCompleted publica o evento de devolução concluída
func (p *Producer) PublishRefundCompleted(ctx context.Context, ev event.RefundCompleted) error {
	return publish(ctx, p.refunds, ev.SaleID, ev)
}

// Close fecha os writers
func (p *Producer) Close() error {
	if err := p.sales.Close(); err != nil {
		return err
	}
	return p.refunds.Close()
}

func publish(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}
