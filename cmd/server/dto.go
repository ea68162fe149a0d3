package main

import (
	"time"

	"shareit/pkg/models"
)

type userResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type itemResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *uint  `json:"requestId,omitempty"`
}

type itemRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID     uint                 `json:"id"`
	Start  time.Time            `json:"start"`
	End    time.Time            `json:"end"`
	Status models.BookingStatus `json:"status"`
	Booker userRef              `json:"booker"`
	Item   itemRef              `json:"item"`
}

// bookingInfo is the owner-only last/next booking summary on item views.
type bookingInfo struct {
	ID       uint `json:"id"`
	BookerID uint `json:"bookerId"`
}

type commentResponse struct {
	ID         uint      `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type itemDetailsResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	LastBooking *bookingInfo      `json:"lastBooking,omitempty"`
	NextBooking *bookingInfo      `json:"nextBooking,omitempty"`
	Comments    []commentResponse `json:"comments"`
}

type itemShortResponse struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	LastBooking *bookingInfo `json:"lastBooking,omitempty"`
	NextBooking *bookingInfo `json:"nextBooking,omitempty"`
}

type requestResponse struct {
	ID          uint           `json:"id"`
	Description string         `json:"description"`
	Created     time.Time      `json:"created"`
	Items       []itemResponse `json:"items"`
}

type pageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func newPageResponse[T any](content []T, page, size int, total int64) pageResponse[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return pageResponse[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

func toUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toItemResponse(i models.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

// toBookingResponses resolves booker and item references in two batched
// queries instead of one pair per booking.
func toBookingResponses(bookings []models.Booking) ([]bookingResponse, error) {
	if len(bookings) == 0 {
		return []bookingResponse{}, nil
	}

	bookerIDs := make([]uint, 0, len(bookings))
	itemIDs := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		bookerIDs = append(bookerIDs, b.BookerID)
		itemIDs = append(itemIDs, b.ItemID)
	}

	var users []models.User
	if err := db.Where("id IN ?", bookerIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	var items []models.Item
	if err := db.Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
		return nil, err
	}

	usersByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}
	itemsByID := make(map[uint]models.Item, len(items))
	for _, i := range items {
		itemsByID[i.ID] = i
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingResponse{
			ID:     b.ID,
			Start:  b.StartTime,
			End:    b.EndTime,
			Status: b.Status,
			Booker: userRef{ID: b.BookerID, Name: usersByID[b.BookerID].Name},
			Item:   itemRef{ID: b.ItemID, Name: itemsByID[b.ItemID].Name},
		})
	}
	return out, nil
}

func toBookingResponse(b models.Booking) (bookingResponse, error) {
	resps, err := toBookingResponses([]models.Booking{b})
	if err != nil {
		return bookingResponse{}, err
	}
	return resps[0], nil
}

func toRequestResponse(r models.ItemRequest, items []models.Item) requestResponse {
	answered := make([]itemResponse, 0, len(items))
	for _, i := range items {
		if i.RequestID != nil && *i.RequestID == r.ID {
			answered = append(answered, toItemResponse(i))
		}
	}
	return requestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       answered,
	}
}
