package pkg

import "testing"

func TestEventMessage(t *testing.T) {
	msg := eventMessage(PartitionKey(42), "follow", []byte(`{"id":1}`))
	if string(msg.Key) != "42" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != EventTypeHeader || string(msg.Headers[0].Value) != "follow" {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
}

func TestNewEventProducerNeedsBrokers(t *testing.T) {
	if _, err := NewEventProducer(KafkaConfig{Topic: "t"}); err == nil {
		t.Fatal("expected error without brokers")
	}
	p, err := NewEventProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "t"})
	if err != nil {
		t.Fatalf("new producer: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
