package models

const (
	TicketStatusReserved = "RESERVED"
	TicketStatusPaid     = "PAID"
)

const (
	// DefaultRoomCacheTTL время жизни кэша занятости комнат
	DefaultRoomCacheTTL = 60 // секунды

	// DefaultUserRateLimit запросов на пользователя в окне
	DefaultUserRateLimit = 30

	// DefaultUserRateWindow окно ограничения частоты запросов
	DefaultUserRateWindow = 60 // секунды

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 128
)
