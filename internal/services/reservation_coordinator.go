package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// ReservationCoordinator keeps rooms, reservations and pending requests
// consistent. A room is Occupied exactly when one active reservation
// references its number, and every stay checks out after it checks in.
type ReservationCoordinator struct {
	hotel     *database.HotelStore
	clients   *ClientService
	publisher events.Publisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewReservationCoordinator creates a new reservation coordinator
func NewReservationCoordinator(
	hotel *database.HotelStore,
	clients *ClientService,
	publisher events.Publisher,
	logger *logrus.Logger,
) *ReservationCoordinator {
	return &ReservationCoordinator{
		hotel:     hotel,
		clients:   clients,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// roomIndex resolves room numbers against one loaded room slice
type roomIndex struct {
	rooms    []models.Room
	byNumber map[string]int
}

func indexRooms(rooms []models.Room) *roomIndex {
	idx := &roomIndex{rooms: rooms, byNumber: make(map[string]int, len(rooms))}
	for i, room := range rooms {
		if _, dup := idx.byNumber[room.Number]; !dup {
			idx.byNumber[room.Number] = i
		}
	}
	return idx
}

// resolve returns the position of the room a reservation points at
func (x *roomIndex) resolve(number *string) (int, bool) {
	if number == nil {
		return -1, false
	}
	i, ok := x.byNumber[*number]
	return i, ok
}

// firstAvailable returns the first Available room of a type in stored order
func (x *roomIndex) firstAvailable(roomType models.RoomType) (int, bool) {
	for i, room := range x.rooms {
		if room.Type == roomType && room.IsAvailable() {
			return i, true
		}
	}
	return -1, false
}

func (x *roomIndex) setStatus(number *string, status models.RoomStatus) bool {
	i, ok := x.resolve(number)
	if ok {
		x.rooms[i].Status = status
	}
	return ok
}

func findReservation(reservations []models.Reservation, id int64) int {
	for i := range reservations {
		if reservations[i].ID == id {
			return i
		}
	}
	return -1
}

func reservationNotFound(id int64) *NotFoundError {
	return &NotFoundError{Entity: "reservation", Key: strconv.FormatInt(id, 10)}
}

func validateStay(checkIn, checkOut string) *ValidationError {
	if _, err := validator.Date(checkIn); err != nil {
		return &ValidationError{Field: "checkIn", Message: err.Error()}
	}
	if err := validator.Stay(checkIn, checkOut); err != nil {
		return &ValidationError{Field: "checkOut", Message: err.Error()}
	}
	return nil
}

func validateGuests(adults, children int) *ValidationError {
	if adults < 1 {
		return invalid("adults", "at least one adult is required")
	}
	if children < 0 {
		return invalid("children", "children cannot be negative")
	}
	return nil
}

// ListReservations returns every reservation, or those of one room type
func (c *ReservationCoordinator) ListReservations(ctx context.Context, roomType string) ([]models.Reservation, error) {
	reservations, err := c.hotel.Reservations.List(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(roomType) == "" {
		return reservations, nil
	}

	t, ok := models.ParseRoomType(roomType)
	if !ok {
		return nil, invalid("roomType", "unknown room type %q", roomType)
	}
	matches := make([]models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.RoomType == t {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// GetReservation returns one reservation
func (c *ReservationCoordinator) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := c.hotel.Reservations.GetByID(ctx, id)
	if errors.Is(err, database.ErrRecordNotFound) {
		return nil, reservationNotFound(id)
	}
	return reservation, err
}

// AvailableRoomsForType lists rooms a new reservation of the type could take
func (c *ReservationCoordinator) AvailableRoomsForType(ctx context.Context, roomType string) ([]models.Room, error) {
	t, ok := models.ParseRoomType(roomType)
	if !ok {
		return nil, invalid("roomType", "unknown room type %q", roomType)
	}
	return c.hotel.Rooms.ListAvailableByType(ctx, t)
}

// LookupClient finds a registered client to prefill the reservation form
func (c *ReservationCoordinator) LookupClient(ctx context.Context, nationalID string) (*models.Client, error) {
	return c.clients.FindByNationalID(ctx, nationalID)
}

// CreateFromAdminForm books the selected room for a walk-in or phone
// reservation. The reservation starts Pending and the room is occupied
// immediately.
func (c *ReservationCoordinator) CreateFromAdminForm(ctx context.Context, req models.CreateReservationRequest) (*models.Reservation, error) {
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return nil, invalid("clientName", "client name is required")
	}
	email, err := validator.Email(req.Email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}
	nationalID, err := validator.NationalID(req.NationalID)
	if err != nil {
		return nil, &ValidationError{Field: "nationalId", Message: err.Error()}
	}
	phone, err := validator.Phone(req.Phone)
	if err != nil {
		return nil, &ValidationError{Field: "phone", Message: err.Error()}
	}
	if verr := validateStay(req.CheckIn, req.CheckOut); verr != nil {
		return nil, verr
	}
	if verr := validateGuests(req.Adults, req.Children); verr != nil {
		return nil, verr
	}
	roomType, ok := models.ParseRoomType(req.RoomType)
	if !ok {
		return nil, invalid("roomType", "unknown room type %q", req.RoomType)
	}
	roomNumber := strings.TrimSpace(req.RoomNumber)
	if roomNumber == "" {
		return nil, invalid("roomNumber", "select an available room")
	}

	var created models.Reservation
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}
		index := indexRooms(rooms)

		i, found := index.resolve(&roomNumber)
		if !found || rooms[i].Type != roomType || !rooms[i].IsAvailable() {
			return &UnavailableResourceError{
				RoomType: string(roomType),
				Message:  fmt.Sprintf("room %s is not available for %s reservations", roomNumber, roomType),
			}
		}

		reservations, err := tx.Reservations.List(ctx)
		if err != nil {
			return err
		}
		taken := make(map[int64]bool, len(reservations))
		for _, r := range reservations {
			taken[r.ID] = true
		}

		now := c.now()
		number := rooms[i].Number
		created = models.Reservation{
			ID:            newRecordID(now, func(id int64) bool { return taken[id] }),
			ClientName:    name,
			Email:         email,
			NationalID:    nationalID,
			Phone:         phone,
			CheckIn:       strings.TrimSpace(req.CheckIn),
			CheckOut:      strings.TrimSpace(req.CheckOut),
			RoomType:      roomType,
			RoomNumber:    &number,
			PricePerNight: rooms[i].Price,
			Adults:        req.Adults,
			Children:      req.Children,
			Status:        models.ReservationStatusPending,
			CreatedAt:     now.UTC(),
			Origin:        models.OriginAdminForm,
		}
		rooms[i].Status = models.RoomStatusOccupied

		if err := tx.Reservations.Save(ctx, append(reservations, created)); err != nil {
			return err
		}
		return tx.Rooms.Save(ctx, rooms)
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithFields(logrus.Fields{
		"reservation_id": created.ID,
		"room_number":    *created.RoomNumber,
		"origin":         created.Origin,
	}).Info("Reservation created from admin form")

	return &created, nil
}

// ListPendingRequests returns web requests still awaiting a decision
func (c *ReservationCoordinator) ListPendingRequests(ctx context.Context) ([]models.PendingRequest, error) {
	return c.hotel.Requests.ListOpen(ctx)
}

// ListAllRequests returns every web request including decided ones
func (c *ReservationCoordinator) ListAllRequests(ctx context.Context) ([]models.PendingRequest, error) {
	return c.hotel.Requests.List(ctx)
}

// SubmitRequest records a reservation request from the public form
func (c *ReservationCoordinator) SubmitRequest(ctx context.Context, req models.SubmitRequestRequest) (*models.PendingRequest, error) {
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return nil, invalid("clientName", "client name is required")
	}
	email, err := validator.Email(req.Email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}
	nationalID := ""
	if strings.TrimSpace(req.NationalID) != "" {
		if nationalID, err = validator.NationalID(req.NationalID); err != nil {
			return nil, &ValidationError{Field: "nationalId", Message: err.Error()}
		}
	}
	roomType, ok := models.ParseRoomType(req.RoomType)
	if !ok {
		return nil, invalid("roomType", "unknown room type %q", req.RoomType)
	}
	if verr := validateStay(req.CheckIn, req.CheckOut); verr != nil {
		return nil, verr
	}
	if verr := validateGuests(req.Adults, req.Children); verr != nil {
		return nil, verr
	}

	var created models.PendingRequest
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		requests, err := tx.Requests.List(ctx)
		if err != nil {
			return err
		}
		taken := make(map[int64]bool, len(requests))
		for _, r := range requests {
			taken[r.ID] = true
		}

		created = models.PendingRequest{
			ID:                newRecordID(c.now(), func(id int64) bool { return taken[id] }),
			ClientName:        name,
			Email:             email,
			NationalID:        nationalID,
			RoomTypeRequested: string(roomType),
			CheckIn:           strings.TrimSpace(req.CheckIn),
			CheckOut:          strings.TrimSpace(req.CheckOut),
			Adults:            req.Adults,
			Children:          req.Children,
			Status:            models.RequestStatusPending,
		}
		return tx.Requests.Save(ctx, append(requests, created))
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithFields(logrus.Fields{
		"request_id": created.ID,
		"room_type":  created.RoomTypeRequested,
	}).Info("Reservation request submitted")

	return &created, nil
}

// ConfirmFromPendingRequest turns a web request into a Confirmed
// reservation on the first Available room of the requested type
func (c *ReservationCoordinator) ConfirmFromPendingRequest(ctx context.Context, requestID int64) (*models.Reservation, error) {
	var created models.Reservation
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		requests, err := tx.Requests.List(ctx)
		if err != nil {
			return err
		}
		ri := -1
		for i := range requests {
			if requests[i].ID == requestID {
				ri = i
				break
			}
		}
		if ri < 0 {
			return &NotFoundError{Entity: "request", Key: strconv.FormatInt(requestID, 10)}
		}
		request := requests[ri]
		if !request.IsOpen() {
			return &StateConflictError{
				Code:    ConflictRequestClosed,
				Message: fmt.Sprintf("request is already %s", request.EffectiveStatus()),
			}
		}

		requested := strings.TrimSpace(request.RoomTypeRequested)
		if requested == "" {
			requested = string(models.RoomTypeIndividual)
		}
		roomType, ok := models.ParseRoomType(requested)
		if !ok {
			return invalid("roomTypeRequested", "unknown room type %q", request.RoomTypeRequested)
		}
		if verr := validateStay(request.CheckIn, request.CheckOut); verr != nil {
			return verr
		}

		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}
		index := indexRooms(rooms)
		i, found := index.firstAvailable(roomType)
		if !found {
			return &UnavailableResourceError{
				RoomType: string(roomType),
				Message:  fmt.Sprintf("no %s rooms available", roomType),
			}
		}

		reservations, err := tx.Reservations.List(ctx)
		if err != nil {
			return err
		}
		taken := make(map[int64]bool, len(reservations))
		for _, r := range reservations {
			taken[r.ID] = true
		}

		adults := request.Adults
		if adults < 1 {
			adults = 1
		}
		children := request.Children
		if children < 0 {
			children = 0
		}

		now := c.now()
		number := rooms[i].Number
		created = models.Reservation{
			ID:            newRecordID(now, func(id int64) bool { return taken[id] }),
			ClientName:    request.ClientName,
			Email:         request.Email,
			NationalID:    request.NationalID,
			CheckIn:       request.CheckIn,
			CheckOut:      request.CheckOut,
			RoomType:      roomType,
			RoomNumber:    &number,
			PricePerNight: rooms[i].Price,
			Adults:        adults,
			Children:      children,
			Status:        models.ReservationStatusConfirmed,
			CreatedAt:     now.UTC(),
			Origin:        models.OriginWebRequest,
		}
		rooms[i].Status = models.RoomStatusOccupied
		requests[ri].Status = models.RequestStatusConfirmed

		if err := tx.Reservations.Save(ctx, append(reservations, created)); err != nil {
			return err
		}
		if err := tx.Rooms.Save(ctx, rooms); err != nil {
			return err
		}
		return tx.Requests.Save(ctx, requests)
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithFields(logrus.Fields{
		"request_id":     requestID,
		"reservation_id": created.ID,
		"room_number":    *created.RoomNumber,
	}).Info("Web request confirmed")

	return &created, nil
}

// RejectPendingRequest cancels a web request; rooms and reservations are
// untouched
func (c *ReservationCoordinator) RejectPendingRequest(ctx context.Context, requestID int64) (*models.PendingRequest, error) {
	var rejected models.PendingRequest
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		requests, err := tx.Requests.List(ctx)
		if err != nil {
			return err
		}
		for i := range requests {
			if requests[i].ID != requestID {
				continue
			}
			switch requests[i].EffectiveStatus() {
			case models.RequestStatusCancelled:
				rejected = requests[i]
				return nil
			case models.RequestStatusConfirmed:
				return &StateConflictError{Code: ConflictRequestClosed, Message: "request is already Confirmed"}
			}
			requests[i].Status = models.RequestStatusCancelled
			rejected = requests[i]
			return tx.Requests.Save(ctx, requests)
		}
		return &NotFoundError{Entity: "request", Key: strconv.FormatInt(requestID, 10)}
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithField("request_id", requestID).Info("Web request rejected")
	return &rejected, nil
}

// ConfirmReservation confirms a Pending reservation. When its room was
// freed in the meantime the room is only re-occupied if
// occupyAvailableRoom is set.
func (c *ReservationCoordinator) ConfirmReservation(ctx context.Context, id int64, occupyAvailableRoom bool) (*models.Reservation, error) {
	var confirmed models.Reservation
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		reservations, err := tx.Reservations.List(ctx)
		if err != nil {
			return err
		}
		ri := findReservation(reservations, id)
		if ri < 0 {
			return reservationNotFound(id)
		}
		reservation := &reservations[ri]

		switch reservation.Status {
		case models.ReservationStatusPending:
		case models.ReservationStatusConfirmed:
			return &StateConflictError{Code: ConflictAlreadyConfirmed, Message: "reservation is already confirmed"}
		default:
			return &StateConflictError{
				Code:    ConflictInvalidTransition,
				Message: fmt.Sprintf("a %s reservation cannot be confirmed", reservation.Status),
			}
		}

		if !reservation.HasRoom() {
			return &NotFoundError{Entity: "room", Key: "(unassigned)"}
		}
		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}
		index := indexRooms(rooms)
		i, found := index.resolve(reservation.RoomNumber)
		if !found {
			return &NotFoundError{Entity: "room", Key: *reservation.RoomNumber}
		}

		if rooms[i].IsAvailable() {
			if !occupyAvailableRoom {
				return &StateConflictError{
					Code:    ConflictConfirmationRequired,
					Message: fmt.Sprintf("room %s is Available; confirm again to occupy it", rooms[i].Number),
				}
			}
			rooms[i].Status = models.RoomStatusOccupied
			if err := tx.Rooms.Save(ctx, rooms); err != nil {
				return err
			}
		}

		reservation.Status = models.ReservationStatusConfirmed
		confirmed = *reservation
		return tx.Reservations.Save(ctx, reservations)
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithField("reservation_id", id).Info("Reservation confirmed")
	return &confirmed, nil
}

// ReleaseRoom checks a guest out: the room becomes Available and the
// reservation Completed
func (c *ReservationCoordinator) ReleaseRoom(ctx context.Context, id int64) (*models.Reservation, error) {
	var released models.Reservation
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		reservations, err := tx.Reservations.List(ctx)
		if err != nil {
			return err
		}
		ri := findReservation(reservations, id)
		if ri < 0 {
			return reservationNotFound(id)
		}
		reservation := &reservations[ri]

		if !reservation.HasRoom() {
			return &StateConflictError{Code: ConflictNoRoomAssigned, Message: "reservation has no room assigned"}
		}
		if !reservation.Status.IsActive() {
			return &StateConflictError{
				Code:    ConflictInvalidTransition,
				Message: fmt.Sprintf("a %s reservation does not hold a room", reservation.Status),
			}
		}

		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}
		if indexRooms(rooms).setStatus(reservation.RoomNumber, models.RoomStatusAvailable) {
			if err := tx.Rooms.Save(ctx, rooms); err != nil {
				return err
			}
		} else {
			c.logger.WithFields(logrus.Fields{
				"reservation_id": id,
				"room_number":    *reservation.RoomNumber,
			}).Warn("Released reservation references a room that no longer exists")
		}

		reservation.Status = models.ReservationStatusCompleted
		released = *reservation
		return tx.Reservations.Save(ctx, reservations)
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithField("reservation_id", id).Info("Room released")
	return &released, nil
}

// CancelReservation deletes a reservation and frees the room it named.
// It reports false when nothing matched.
func (c *ReservationCoordinator) CancelReservation(ctx context.Context, id int64) (bool, error) {
	removed := false
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		reservations, err := tx.Reservations.List(ctx)
		if err != nil {
			return err
		}
		ri := findReservation(reservations, id)
		if ri < 0 {
			return nil
		}
		reservation := reservations[ri]
		removed = true

		kept := append(reservations[:ri:ri], reservations[ri+1:]...)
		if err := tx.Reservations.Save(ctx, kept); err != nil {
			return err
		}

		if !reservation.HasRoom() {
			return nil
		}
		rooms, err := tx.Rooms.List(ctx)
		if err != nil {
			return err
		}
		if indexRooms(rooms).setStatus(reservation.RoomNumber, models.RoomStatusAvailable) {
			return tx.Rooms.Save(ctx, rooms)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	publishCommit(c.publisher, keys)

	if removed {
		c.logger.WithField("reservation_id", id).Info("Reservation cancelled")
	}
	return removed, nil
}

// DenyReservation turns a Pending reservation down, freeing its room
// but keeping the record
func (c *ReservationCoordinator) DenyReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	var denied models.Reservation
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		reservations, err := tx.Reservations.List(ctx)
		if err != nil {
			return err
		}
		ri := findReservation(reservations, id)
		if ri < 0 {
			return reservationNotFound(id)
		}
		reservation := &reservations[ri]
		if reservation.Status != models.ReservationStatusPending {
			return &StateConflictError{
				Code:    ConflictInvalidTransition,
				Message: fmt.Sprintf("a %s reservation cannot be denied", reservation.Status),
			}
		}

		if reservation.HasRoom() {
			rooms, err := tx.Rooms.List(ctx)
			if err != nil {
				return err
			}
			if indexRooms(rooms).setStatus(reservation.RoomNumber, models.RoomStatusAvailable) {
				if err := tx.Rooms.Save(ctx, rooms); err != nil {
					return err
				}
			}
		}

		reservation.Status = models.ReservationStatusDenied
		denied = *reservation
		return tx.Reservations.Save(ctx, reservations)
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithField("reservation_id", id).Info("Reservation denied")
	return &denied, nil
}

// EditReservation applies a partial edit to a reservation that is not
// yet Confirmed or Completed. A room type change moves the reservation
// to the first Available room of the new type.
func (c *ReservationCoordinator) EditReservation(ctx context.Context, id int64, req models.EditReservationRequest) (*models.Reservation, error) {
	var edited models.Reservation
	keys, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		reservations, err := tx.Reservations.List(ctx)
		if err != nil {
			return err
		}
		ri := findReservation(reservations, id)
		if ri < 0 {
			return reservationNotFound(id)
		}
		current := reservations[ri]

		if current.Status == models.ReservationStatusConfirmed || current.Status == models.ReservationStatusCompleted {
			return &StateConflictError{
				Code:    ConflictEditNotPermitted,
				Message: fmt.Sprintf("a %s reservation cannot be edited", current.Status),
			}
		}

		merged := current
		if req.ClientName != nil {
			merged.ClientName = strings.TrimSpace(*req.ClientName)
			if merged.ClientName == "" {
				return invalid("clientName", "client name is required")
			}
		}
		if req.CheckIn != nil {
			merged.CheckIn = strings.TrimSpace(*req.CheckIn)
		}
		if req.CheckOut != nil {
			merged.CheckOut = strings.TrimSpace(*req.CheckOut)
		}
		if req.Adults != nil {
			merged.Adults = *req.Adults
		}
		if req.Children != nil {
			merged.Children = *req.Children
		}
		if verr := validateStay(merged.CheckIn, merged.CheckOut); verr != nil {
			return verr
		}
		if verr := validateGuests(merged.Adults, merged.Children); verr != nil {
			return verr
		}

		roomsChanged := false
		var rooms []models.Room
		if req.RoomType != nil {
			newType, ok := models.ParseRoomType(*req.RoomType)
			if !ok {
				return invalid("roomType", "unknown room type %q", *req.RoomType)
			}
			if newType != current.RoomType {
				if !current.Status.IsActive() {
					return &StateConflictError{
						Code:    ConflictInvalidTransition,
						Message: fmt.Sprintf("a %s reservation cannot change rooms", current.Status),
					}
				}

				rooms, err = tx.Rooms.List(ctx)
				if err != nil {
					return err
				}
				index := indexRooms(rooms)
				ni, found := index.firstAvailable(newType)
				if !found {
					return &UnavailableResourceError{
						RoomType: string(newType),
						Message:  fmt.Sprintf("no %s rooms available", newType),
					}
				}

				index.setStatus(current.RoomNumber, models.RoomStatusAvailable)
				rooms[ni].Status = models.RoomStatusOccupied

				number := rooms[ni].Number
				merged.RoomType = newType
				// the nightly price agreed at booking time is kept
				merged.RoomNumber = &number
				roomsChanged = true
			}
		}

		reservations[ri] = merged
		edited = merged
		if err := tx.Reservations.Save(ctx, reservations); err != nil {
			return err
		}
		if roomsChanged {
			return tx.Rooms.Save(ctx, rooms)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishCommit(c.publisher, keys)

	c.logger.WithField("reservation_id", id).Info("Reservation edited")
	return &edited, nil
}

// VerifyOccupancy reports rooms whose status disagrees with the active
// reservations referencing them. Both collections are read under the
// store lock so a concurrent commit is seen whole or not at all.
func (c *ReservationCoordinator) VerifyOccupancy(ctx context.Context) ([]models.OccupancyIssue, error) {
	var (
		rooms        []models.Room
		reservations []models.Reservation
	)
	_, err := c.hotel.WithTx(ctx, func(tx *database.HotelTx) error {
		var err error
		if rooms, err = tx.Rooms.List(ctx); err != nil {
			return err
		}
		reservations, err = tx.Reservations.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	active := make(map[string][]int64)
	for _, r := range reservations {
		if r.Status.IsActive() && r.HasRoom() {
			active[*r.RoomNumber] = append(active[*r.RoomNumber], r.ID)
		}
	}

	issues := make([]models.OccupancyIssue, 0)
	for _, room := range rooms {
		holders := active[room.Number]
		occupied := room.Status == models.RoomStatusOccupied
		if (occupied && len(holders) == 1) || (!occupied && len(holders) == 0) {
			continue
		}
		if holders == nil {
			holders = []int64{}
		}
		issues = append(issues, models.OccupancyIssue{
			RoomID:             room.ID,
			RoomNumber:         room.Number,
			RoomStatus:         room.Status,
			ActiveReservations: holders,
		})
	}
	return issues, nil
}
