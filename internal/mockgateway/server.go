package mockgateway

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"yqhp/gateway-bench/pkg/logger"
)

// IDField values select which identifier field the merchant endpoint returns.
const (
	IDFieldID         = "id"
	IDFieldMerchantID = "merchantId"
	IDFieldNone       = "none"
)

// Config controls the behaviour of the fake gateway.
type Config struct {
	// Latency is added to every payment request before it is answered.
	Latency time.Duration `yaml:"latency"`

	// FailEvery makes every Nth payment request return HTTP 500 (0 disables).
	FailEvery int `yaml:"fail_every"`

	// FailRegister makes user registration return HTTP 500.
	FailRegister bool `yaml:"fail_register"`

	// FailMerchant makes merchant registration return HTTP 400.
	FailMerchant bool `yaml:"fail_merchant"`

	// IDField chooses the merchant identifier field: "id", "merchantId" or "none".
	IDField string `yaml:"id_field"`

	// RequireAuth rejects merchant and payment calls without a known bearer token.
	RequireAuth bool `yaml:"require_auth"`
}

// DefaultConfig returns the default mock configuration.
func DefaultConfig() *Config {
	return &Config{
		IDField:     IDFieldID,
		RequireAuth: true,
	}
}

// Server is the fake payment gateway.
type Server struct {
	app    *fiber.App
	config *Config
	log    *zap.Logger

	tokens    sync.Map // token -> username
	merchants sync.Map // merchantID -> name

	registerCalls atomic.Int64
	merchantCalls atomic.Int64
	paymentCalls  atomic.Int64

	addr string
}

// NewServer creates a new fake gateway.
func NewServer(config *Config, log *zap.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.IDField == "" {
		config.IDField = IDFieldID
	}

	app := fiber.New(fiber.Config{
		AppName:               "gateway-bench mock",
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	s := &Server{
		app:    app,
		config: config,
		log:    logger.OrNop(log).Named("mock"),
	}

	app.Use(fiberrecover.New())
	s.setupRoutes()
	return s
}

// setupRoutes registers the gateway routes.
func (s *Server) setupRoutes() {
	s.app.Post("/auth/register", s.handleRegister)
	s.app.Post("/merchants", s.handleMerchant)
	s.app.Post("/payments/process", s.handlePayment)
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(Envelope{Success: true, Message: "ok"})
	})
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on addr (use "127.0.0.1:0" for a random port) and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.addr = ln.Addr().String()

	go func() {
		if err := s.app.Listener(ln); err != nil {
			s.log.Warn("mock gateway stopped", zap.Error(err))
		}
	}()
	s.log.Info("mock gateway listening", zap.String("addr", s.addr))
	return nil
}

// Listen serves on addr and blocks until the server stops.
func (s *Server) Listen(addr string) error {
	s.addr = addr
	s.log.Info("mock gateway listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// BaseURL returns http://host:port for a started server.
func (s *Server) BaseURL() string {
	return "http://" + s.addr
}

// AuthURL is the credential issuance base URL.
func (s *Server) AuthURL() string { return s.BaseURL() + "/auth" }

// MerchantURL is the merchant registration URL.
func (s *Server) MerchantURL() string { return s.BaseURL() + "/merchants" }

// PaymentURL is the payment base URL.
func (s *Server) PaymentURL() string { return s.BaseURL() + "/payments" }

// Calls returns how many requests reached the endpoint.
func (s *Server) Calls(e Endpoint) int64 {
	switch e {
	case EndpointRegister:
		return s.registerCalls.Load()
	case EndpointMerchant:
		return s.merchantCalls.Load()
	case EndpointPayment:
		return s.paymentCalls.Load()
	default:
		return 0
	}
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	s.registerCalls.Add(1)

	if s.config.FailRegister {
		return fiber.NewError(fiber.StatusInternalServerError, "registration unavailable")
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}

	token := uuid.NewString()
	s.tokens.Store(token, req.Username)

	return c.JSON(Envelope{
		Success: true,
		Message: "User registered successfully",
		Data:    AuthData{Token: token, Username: req.Username},
	})
}

func (s *Server) handleMerchant(c *fiber.Ctx) error {
	s.merchantCalls.Add(1)

	if err := s.authorize(c); err != nil {
		return err
	}
	if s.config.FailMerchant {
		return fiber.NewError(fiber.StatusBadRequest, "merchant registration rejected")
	}

	var req MerchantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	id := uuid.NewString()
	s.merchants.Store(id, req.Name)

	data := fiber.Map{
		"name":       req.Name,
		"email":      req.Email,
		"webhookUrl": req.WebhookURL,
		"status":     "ACTIVE",
	}
	switch s.config.IDField {
	case IDFieldMerchantID:
		data["merchantId"] = id
	case IDFieldNone:
	default:
		data["id"] = id
	}

	return c.JSON(Envelope{Success: true, Message: "Merchant registered", Data: data})
}

func (s *Server) handlePayment(c *fiber.Ctx) error {
	n := s.paymentCalls.Add(1)

	if s.config.Latency > 0 {
		time.Sleep(s.config.Latency)
	}
	if err := s.authorize(c); err != nil {
		return err
	}
	if s.config.FailEvery > 0 && n%int64(s.config.FailEvery) == 0 {
		return fiber.NewError(fiber.StatusInternalServerError, "simulated processing failure")
	}

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.MerchantID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "merchantId is required")
	}
	if s.config.RequireAuth {
		if _, ok := s.merchants.Load(req.MerchantID); !ok {
			return fiber.NewError(fiber.StatusNotFound, "merchant not found")
		}
	}

	return c.JSON(Envelope{Success: true, Message: "Payment processed", Data: Decide(&req)})
}

// authorize checks the bearer token when authentication is required.
func (s *Server) authorize(c *fiber.Ctx) error {
	if !s.config.RequireAuth {
		return nil
	}
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	if _, known := s.tokens.Load(token); !known {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	return nil
}

// errorHandler renders errors in the gateway envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(Envelope{Success: false, Message: err.Error()})
}
