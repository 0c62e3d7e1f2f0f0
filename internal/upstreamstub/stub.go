// Package upstreamstub fakes the remote flower-shop API for tests: an echo
// server over an in-memory sqlite database that mirrors the consumed REST
// surface, including the server-authoritative recomputation the client must
// defer to (stock clamping, line totals, promotion prices).
package upstreamstub

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type FlowerColorRow struct {
	ID         string `gorm:"primaryKey"`
	FlowerName string
	ColorID    string
	ColorName  string
	Price      int64
	SalePrice  int64 // 0 = no promotion
	Quantity   int
	Image      string
}

type ColorRow struct {
	ID   string `gorm:"primaryKey"`
	Name string
	Hex  string
}

type CartItemRow struct {
	ID            string `gorm:"primaryKey"`
	UserID        string `gorm:"index"`
	FlowerColorID string
	Quantity      int
}

type RecipientRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Name      string
	Phone     string
	Address   string
	IsDefault bool
}

type OrderRow struct {
	ID               string `gorm:"primaryKey"`
	Code             string
	UserID           string `gorm:"index"`
	CustomerName     string
	Status           string
	TotalPayment     int64
	ShippingFee      int64
	RecipientName    string
	RecipientPhone   string
	RecipientAddress string
	Note             string
	DeliveryAt       time.Time
	OrderDate        time.Time
}

type OrderDetailRow struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	OrderID       string `gorm:"index"`
	FlowerColorID string
	FlowerName    string
	Quantity      int
	UnitPrice     int64
	TotalPrice    int64
}

type Stub struct {
	DB     *gorm.DB
	Server *httptest.Server
	Secret []byte

	// Failure toggles for partial-workflow tests.
	FailPayments   bool
	FailCartUpdate bool

	mu   sync.Mutex
	hits []string
}

var stubSeq atomic.Int64

func New() (*Stub, error) {
	// A named shared-cache DB keeps gorm's pooled connections on the same
	// in-memory database while isolating parallel stubs from each other.
	dsn := fmt.Sprintf("file:stub%d?mode=memory&cache=shared", stubSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&FlowerColorRow{}, &ColorRow{}, &CartItemRow{}, &RecipientRow{}, &OrderRow{}, &OrderDetailRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Stub{DB: db, Secret: []byte("test-secret")}

	e := echo.New()
	e.Use(s.record, s.auth)
	s.routes(e)
	s.Server = httptest.NewServer(e)
	return s, nil
}

func (s *Stub) Close() { s.Server.Close() }

func (s *Stub) URL() string { return s.Server.URL }

// MintToken issues an HS256 token the way the real auth service would.
func (s *Stub) MintToken(sub, role string) string {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.Secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// HitCount reports how many requests matched method and path prefix, for
// asserting cache behavior.
func (s *Stub) HitCount(method, pathPrefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		if strings.HasPrefix(h, method+" "+pathPrefix) {
			n++
		}
	}
	return n
}

func (s *Stub) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.hits = append(s.hits, c.Request().Method+" "+c.Request().URL.Path)
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Stub) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
		}
		tok, err := jwt.Parse(strings.TrimPrefix(raw, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			return s.Secret, nil
		})
		if err != nil || !tok.Valid {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		claims := tok.Claims.(jwt.MapClaims)
		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		c.Set("sub", sub)
		c.Set("role", role)
		return next(c)
	}
}

// Seed helpers.

func (s *Stub) SeedFlowerColor(name, colorName string, price, salePrice int64, stock int) FlowerColorRow {
	row := FlowerColorRow{
		ID:         uuid.NewString(),
		FlowerName: name,
		ColorID:    uuid.NewString(),
		ColorName:  colorName,
		Price:      price,
		SalePrice:  salePrice,
		Quantity:   stock,
	}
	s.DB.Create(&row)
	return row
}

func (s *Stub) SeedCartItem(userID string, fc FlowerColorRow, quantity int) CartItemRow {
	row := CartItemRow{
		ID:            uuid.NewString(),
		UserID:        userID,
		FlowerColorID: fc.ID,
		Quantity:      quantity,
	}
	s.DB.Create(&row)
	return row
}

func (s *Stub) SeedRecipient(userID, name, phone, address string, isDefault bool) RecipientRow {
	row := RecipientRow{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Phone:     phone,
		Address:   address,
		IsDefault: isDefault,
	}
	s.DB.Create(&row)
	return row
}

func (s *Stub) SeedOrder(userID, customer, code, status string, total int64) OrderRow {
	row := OrderRow{
		ID:           uuid.NewString(),
		Code:         code,
		UserID:       userID,
		CustomerName: customer,
		Status:       status,
		TotalPayment: total,
		OrderDate:    time.Now(),
	}
	s.DB.Create(&row)
	return row
}
