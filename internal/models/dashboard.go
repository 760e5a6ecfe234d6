package models

import "time"

// OriginBreakdown counts reservations by how they were created
type OriginBreakdown struct {
	WebRequest int `json:"webRequest"`
	AdminForm  int `json:"adminForm"`
}

// DashboardStats is the read-only projection shown on the dashboard
type DashboardStats struct {
	TotalReservations     int                       `json:"totalReservations"`
	PendingRequests       int                       `json:"pendingRequests"`
	ConfirmedReservations int                       `json:"confirmedReservations"`
	ConfirmedByRoomType   map[RoomType]int          `json:"confirmedByRoomType"`
	ByStatus              map[ReservationStatus]int `json:"byStatus"`
	ByOrigin              OriginBreakdown           `json:"byOrigin"`
	RoomsByStatus         map[RoomStatus]int        `json:"roomsByStatus"`
	TotalRooms            int                       `json:"totalRooms"`
	TotalClients          int                       `json:"totalClients"`
	GeneratedAt           time.Time                 `json:"generatedAt"`
}
