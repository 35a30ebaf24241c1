package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestKafkaPublisherSendsEnvelope(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev map[string]interface{}
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev["type"] != TypeFeedbackCreated {
			t.Errorf("type = %v", ev["type"])
		}
		return nil
	})

	p := newKafkaPublisher(producer, "saas-events")
	err := p.Publish(context.Background(), Event{
		Type: TypeFeedbackCreated,
		Key:  "fb-1",
		Data: map[string]string{"id": "fb-1"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestKafkaPublisherPropagatesErrors(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newKafkaPublisher(producer, "saas-events")
	if err := p.Publish(context.Background(), Event{Type: TypeCreditsAdjusted}); err == nil {
		t.Error("expected error from failing producer")
	}
	p.Close()
}
