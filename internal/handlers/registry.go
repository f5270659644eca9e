package handlers

// AppHandlers holds every handler the router registers.
type AppHandlers struct {
	HealthHandler       *HealthHandler
	ChatHandler         *ChatHandler
	NotificationHandler *NotificationHandler
	EventHandler        *EventHandler
	AttachmentHandler   *AttachmentHandler
}
