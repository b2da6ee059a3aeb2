package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
)

const DefaultLoanTopic = "library.loans"

type Config struct {
	Addrs     []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
	LoanTopic string   `yaml:"loanTopic" envconfig:"KAFKA_LOAN_TOPIC" default:"library.loans"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Timeout = 5 * time.Second

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

type LoanEventType string

const (
	LoanBorrowed LoanEventType = "BORROWED"
	LoanReturned LoanEventType = "RETURNED"
)

type LoanEvent struct {
	EventID     string        `json:"eventId"`
	Type        LoanEventType `json:"type"`
	BorrowingID int64         `json:"borrowingId"`
	UserID      int64         `json:"userId"`
	BookID      int64         `json:"bookId"`
	OccurredAt  time.Time     `json:"occurredAt"`
	DueDate     time.Time     `json:"dueDate"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type LoanPublisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

func NewLoanPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *LoanPublisher {
	if topic == "" {
		topic = DefaultLoanTopic
	}
	return &LoanPublisher{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(10, 30*time.Second, 0.5, 3),
		log:      log.Named("kafka"),
	}
}

// PublishLoan sends the event keyed by book id so events of one book stay ordered.
func (p *LoanPublisher) PublishLoan(_ context.Context, event LoanEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.BookID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return err
		}
		p.log.Debug("loan event sent",
			zap.String("type", string(event.Type)),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset))
		return nil
	})
}

func (p *LoanPublisher) Close() error {
	return p.producer.Close()
}
