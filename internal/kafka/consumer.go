package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/audit"
)

// auditConsumerHandler prints the order audit events published by the task
// processor. It exists mainly for operating the audit topic without extra
// tooling.
type auditConsumerHandler struct{}

func (auditConsumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (auditConsumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h auditConsumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev audit.Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("kafka: skipping malformed audit event at %s/%d/%d: %v",
				msg.Topic, msg.Partition, msg.Offset, err)
		} else {
			log.Printf("kafka: audit order=%s %s -> %s (%s)",
				ev.OrderID, ev.OldStatus, ev.NewStatus, ev.Message)
		}
		session.MarkMessage(msg, "")
	}
	return nil
}

// StartAuditConsumer joins the consumer group and reads the audit topic
// until ctx is cancelled.
func StartAuditConsumer(ctx context.Context, brokers []string, groupID, topic string) error {
	config := sarama.NewConfig()
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return err
	}
	defer func() {
		if err := group.Close(); err != nil {
			log.Printf("kafka: error closing consumer group: %v", err)
		}
	}()

	handler := auditConsumerHandler{}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := group.Consume(ctx, []string{topic}, handler); err != nil {
				log.Printf("kafka: consumer error: %v", err)
			}
		}
	}
}
