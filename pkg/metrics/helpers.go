package metrics

import (
	"time"
)

// =============================================================================
// Redis таймеры
// =============================================================================

type RedisOperation string

const (
	RedisOpSet      RedisOperation = "set"
	RedisOpSetNX    RedisOperation = "setnx"
	RedisOpDel      RedisOperation = "del"
	RedisOpExists   RedisOperation = "exists"
	RedisOpHGet     RedisOperation = "hget"
	RedisOpSMembers RedisOperation = "smembers"
	RedisOpPipeline RedisOperation = "pipeline"
)

// RedisTimer замеряет длительность одной операции Redis
type RedisTimer struct {
	service   string
	operation RedisOperation
	start     time.Time
}

func NewRedisTimer(service string, op RedisOperation) *RedisTimer {
	return &RedisTimer{
		service:   service,
		operation: op,
		start:     time.Now(),
	}
}

func (rt *RedisTimer) ObserveDuration() {
	RedisOperationDuration.WithLabelValues(rt.service, string(rt.operation)).Observe(time.Since(rt.start).Seconds())
}

// RecordRedisError фиксирует ошибку операции Redis
func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

// =============================================================================
// Database таймеры
// =============================================================================

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
)

// DbTimer замеряет длительность запроса к БД по таблице или коллекции
type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(time.Since(dt.start).Seconds())
}

// RecordDbError фиксирует ошибку запроса к БД
func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

// =============================================================================
// Kafka хелперы
// =============================================================================

// KafkaProduceTimer замеряет отправку одного сообщения
// Вызывающий обязан завершить замер через Success или Error
type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

// Success фиксирует успешную отправку и ее длительность
func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.service, kt.topic).Observe(time.Since(kt.start).Seconds())
}

// Error фиксирует ошибку отправки
func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.service, kt.topic, "produce").Inc()
}

// RecordKafkaMessageConsumed фиксирует обработанное сообщение и время обработки
func RecordKafkaMessageConsumed(service, topic, group string, processingDuration time.Duration) {
	KafkaMessagesConsumed.WithLabelValues(service, topic, group).Inc()
	KafkaConsumeDuration.WithLabelValues(service, topic).Observe(processingDuration.Seconds())
}

// RecordKafkaError фиксирует ошибку Kafka по операции (produce, consume)
func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}
