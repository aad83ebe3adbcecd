package service

// Notifier delivers a message to a chat. Delivery is fire-and-forget from
// the services' point of view: failures are logged by the caller and never
// roll back the operation that triggered the notification.
type Notifier interface {
	Notify(chatID int64, message string) error
}
