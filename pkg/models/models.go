package models

import (
	"fmt"
	"time"
)

// BookingStatus is the lifecycle status of a booking. A booking is created
// WAITING and may move exactly once to APPROVED or REJECTED by the owner of
// the booked item. CANCELED exists in the schema but no operation produces it.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// BookingState is the filter used by booking listings. It is a closed set;
// ParseBookingState is the only place free-form text enters.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a query-string value to a BookingState. An empty
// value defaults to ALL, anything unrecognized is an error for the handler
// to turn into a 404.
func ParseBookingState(s string) (BookingState, error) {
	switch BookingState(s) {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(s), nil
	default:
		return "", fmt.Errorf("unknown booking state: %s", s)
	}
}

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:512;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Item struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"not null"`
	Available   bool   `gorm:"not null"`
	OwnerID     uint   `gorm:"not null;index"`
	RequestID   *uint  `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Booking struct {
	ID        uint          `gorm:"primaryKey"`
	StartTime time.Time     `gorm:"not null;index"`
	EndTime   time.Time     `gorm:"not null"`
	ItemID    uint          `gorm:"not null;index"`
	BookerID  uint          `gorm:"not null;index"`
	Status    BookingStatus `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID       uint   `gorm:"primaryKey"`
	Text     string `gorm:"not null"`
	ItemID   uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null;index"`
	Created  time.Time
}

// ItemRequest is a user's ask for an item that does not exist yet. Items
// created in response reference it through Item.RequestID.
type ItemRequest struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"not null"`
	RequestorID uint   `gorm:"not null;index"`
	Created     time.Time
}
