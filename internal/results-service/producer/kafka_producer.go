package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/racing-tips-platform/internal/shared/kafka"
	"github.com/radieske/racing-tips-platform/pkg/contracts/events"
)

type KafkaPublisher struct {
	Declared *kafka.Writer
	Cleared  *kafka.Writer
}

func NewKafkaPublisher(declared, cleared *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Declared: declared, Cleared: cleared}
}

func (p *KafkaPublisher) PublishResultDeclared(ctx context.Context, e events.ResultDeclared) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.Declared, e.RaceID, b)
}

// PublishResultsCleared avisa a recomputação que a apuração foi zerada
func (p *KafkaPublisher) PublishResultsCleared(ctx context.Context) error {
	b, _ := json.Marshal(map[string]int64{"ts_unix_ms": time.Now().UnixMilli()})
	return skafka.WriteJSON(ctx, p.Cleared, "all", b)
}
