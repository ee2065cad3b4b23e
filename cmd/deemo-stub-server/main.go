// Command deemo-stub-server runs a minimal volunteer-management backend that
// the deemo client can authenticate against. It exists for local development
// and integration testing; accounts live in memory and are lost on restart.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	toml "github.com/pelletier/go-toml/v2"
)

type serverConfig struct {
	ListenPort int    `toml:"port"`
	JWTSecret  string `toml:"jwt_secret"`

	Token struct {
		Lifetime int `toml:"lifetime"`
	} `toml:"token"`

	Seed []seedAccount `toml:"seed"`
}

type seedAccount struct {
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
	Role     string `toml:"role"`
}

// TOML unmarshalling doesn't override fields absent from the file, so defaults
// are applied up front.
func (c *serverConfig) setDefaults() {
	c.ListenPort = 8080
	c.Token.Lifetime = 60 * 60 * 24
}

func loadConfig(path string) (*serverConfig, error) {
	conf := new(serverConfig)
	conf.setDefaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(raw, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

type account struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Age      int
	About    string
}

type accountStore struct {
	mu       sync.RWMutex
	accounts map[string]account
}

func newAccountStore(seed []seedAccount) *accountStore {
	s := &accountStore{accounts: make(map[string]account, len(seed))}
	for _, a := range seed {
		role := a.Role
		if role == "" {
			role = "volunteer"
		}
		s.accounts[strings.ToLower(a.Email)] = account{
			Name:     a.Name,
			Email:    a.Email,
			Password: a.Password,
			Role:     role,
		}
	}
	return s
}

func (s *accountStore) authenticate(email, password string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[strings.ToLower(email)]
	if !ok || a.Password != password {
		return account{}, false
	}
	return a, true
}

func (s *accountStore) create(name, email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := s.accounts[key]; exists {
		return false
	}
	s.accounts[key] = account{Name: name, Email: email, Password: password, Role: "volunteer"}
	return true
}

func (s *accountStore) lookup(email string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[strings.ToLower(email)]
	return a, ok
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type stubServer struct {
	secret   []byte
	lifetime time.Duration
	store    *accountStore
}

func (s *stubServer) mintToken(email string) (string, error) {
	claims := &tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *stubServer) parseToken(raw string) (string, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *stubServer) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "malformed request body")
	}
	if req.Email == "" || req.Password == "" {
		return c.String(http.StatusBadRequest, "email and password are required")
	}

	a, ok := s.store.authenticate(req.Email, req.Password)
	if !ok {
		return c.String(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := s.mintToken(a.Email)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to issue token")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (s *stubServer) handleSignup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "malformed request body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.String(http.StatusBadRequest, "name, email, and password are required")
	}

	if !s.store.create(req.Name, req.Email, req.Password) {
		return c.String(http.StatusConflict, "an account with that email already exists")
	}
	return c.NoContent(http.StatusCreated)
}

func (s *stubServer) handleProfile(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return c.String(http.StatusUnauthorized, "missing bearer token")
	}

	email, err := s.parseToken(raw)
	if err != nil {
		return c.String(http.StatusUnauthorized, "invalid token")
	}

	a, ok := s.store.lookup(email)
	if !ok {
		return c.String(http.StatusNotFound, "account no longer exists")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"name":        a.Name,
		"role":        a.Role,
		"phoneNumber": a.Phone,
		"age":         a.Age,
		"about":       a.About,
	})
}

func main() {
	confPath := flag.String("config", "deemo-stub.toml", "Path to config file")
	flag.Parse()

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	secret := []byte(conf.JWTSecret)
	if len(secret) == 0 {
		log.Printf("No jwt_secret was provided, randomly generating one; tokens will not survive a restart...")
		buff := make([]byte, 32)
		if _, err := rand.Read(buff); err != nil {
			log.Fatalf("Failed to generate random jwt secret: %v", err)
		}
		secret = []byte(base64.RawStdEncoding.EncodeToString(buff))
	} else if len(secret) < 16 {
		log.Fatalf("Error: your jwt_secret was less than 16 characters. Please supply a long, random secret")
	}

	srv := &stubServer{
		secret:   secret,
		lifetime: time.Duration(conf.Token.Lifetime) * time.Second,
		store:    newAccountStore(conf.Seed),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.POST("/api/auth/login", srv.handleLogin)
	e.POST("/api/auth/signup", srv.handleSignup)
	e.GET("/api/profile", srv.handleProfile)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", conf.ListenPort)))
}
