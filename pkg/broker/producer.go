package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}

// Producer publishes invoice lifecycle events. Writes are async and
// best-effort: a failed publish is logged, never surfaced to the caller.
type Producer struct {
	l     *slog.Logger
	w     *kafka.Writer
	topic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:     l,
		w:     w,
		topic: topic,
	}
}

type InvoiceEvent struct {
	Type          string `json:"type"`
	InvoiceID     int64  `json:"invoiceId"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	TotalJPY      int64  `json:"totalJpy,omitempty"`
}

func (p *Producer) InvoiceCreated(ctx context.Context, id int64, number string, totalJPY int64) {
	p.send(ctx, InvoiceEvent{
		Type:          "invoice.created",
		InvoiceID:     id,
		InvoiceNumber: number,
		TotalJPY:      totalJPY,
	})
}

func (p *Producer) InvoiceDeleted(ctx context.Context, id int64) {
	p.send(ctx, InvoiceEvent{
		Type:      "invoice.deleted",
		InvoiceID: id,
	})
}

func (p *Producer) send(ctx context.Context, event InvoiceEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		p.l.Error(fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%s:%d", event.Type, event.InvoiceID)),
		Value: b,
		Topic: p.topic,
	})
	if err != nil {
		p.l.Error(fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}
