package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/middleware"
	"github.com/hotelops/hotel-admin-backend/internal/models"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/hotelops/hotel-admin-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminUser     = "reception"
	testAdminPassword = "correct-horse-battery"
)

type testServer struct {
	router    *gin.Engine
	store     *storage.MemoryStore
	hotel     *database.HotelStore
	dashboard *services.DashboardService
	login     models.AdminLoginResponse
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestServer wires the full API over a memory store with the
// default rooms seeded and an operator logged in
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := newTestLogger()

	store := storage.NewMemoryStore()
	hotel := database.NewHotelStore(store, logger)
	bus := events.NewBus(16)
	jwtService := jwt.NewService("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, time.Hour)

	clientService := services.NewClientService(hotel, bus, logger)
	roomService := services.NewRoomService(hotel, bus, logger)
	coordinator := services.NewReservationCoordinator(hotel, clientService, bus, logger)
	authService := services.NewAdminAuthService(hotel, jwtService, logger)
	dashboard := services.NewDashboardService(hotel, bus, nil, time.Hour, logger)
	rateLimit := services.NewRateLimitService(hotel, services.RateLimitConfig{
		MaxUserAttempts: 3,
		UserWindow:      15 * time.Minute,
		MaxIPAttempts:   10,
		IPWindow:        time.Hour,
	}, logger)

	require.NoError(t, roomService.EnsureSeeded(ctx))
	hash, err := services.HashPassword(testAdminPassword, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, authService.EnsureBootstrapAdmin(ctx, config.AdminConfig{
		Username:     testAdminUser,
		PasswordHash: hash,
		FullName:     "Front Desk",
	}))

	api := &Router{
		Auth:         NewAdminAuthHandler(authService, rateLimit, logger),
		Clients:      NewClientHandler(clientService, logger),
		Rooms:        NewRoomHandler(roomService, logger),
		Reservations: NewReservationHandler(coordinator, logger),
		Dashboard:    NewDashboardHandler(dashboard, 50*time.Millisecond, logger),
		System:       NewSystemHandler(services.NewCronService(hotel, rateLimit, "", "", logger), logger),
	}

	router := gin.New()
	router.GET("/health", NewHealthHandler(store, config.StorageMemory, "test", logger).Health)
	api.Register(router.Group("/api/v1"), middleware.AuthMiddleware(jwtService, logger))

	s := &testServer{router: router, store: store, hotel: hotel, dashboard: dashboard}

	w := s.request(t, http.MethodPost, "/api/v1/auth/login", models.AdminLoginRequest{
		Username: testAdminUser,
		Password: testAdminPassword,
	}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &s.login)

	return s
}

// request sends body as JSON; a nil body sends none
func (s *testServer) request(t *testing.T, method, path string, body interface{}, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+s.login.AccessToken)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) rooms(t *testing.T) map[string]models.Room {
	t.Helper()
	rooms, err := s.hotel.Rooms.List(context.Background())
	require.NoError(t, err)
	byNumber := make(map[string]models.Room, len(rooms))
	for _, r := range rooms {
		byNumber[r.Number] = r
	}
	return byNumber
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	decode(t, w, &body)
	return body
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func ginTestContext(w *httptest.ResponseRecorder, path string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	return c
}
