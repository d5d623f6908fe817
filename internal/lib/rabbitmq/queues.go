package rabbitmq

// Имена обменника, очереди и ключа маршрутизации для писем с кодом подтверждения.
const (
	NotificationsExchange = "notifications"
	VerificationQueue     = "notification.verification"
	VerificationKey       = "verification"
)

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues возвращает очереди, которые читает notification-sender.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: VerificationQueue, RoutingKey: VerificationKey},
	}
}
