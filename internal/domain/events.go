package domain

// События жизненного цикла заявки, публикуемые в Kafka
const (
	EventRequestCreated = "request_created"
	EventRequestClaimed = "request_claimed"
	EventStatusAdvanced = "status_advanced"
	EventRequestClosed  = "request_closed"
	EventRequestReset   = "request_reset"
	EventMessageSent    = "message_sent"
)
