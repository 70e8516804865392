package handler

import (
	"net/http"
	"time"

	"chalan-service/internal/model"
	"chalan-service/pkg/database"
	"chalan-service/pkg/jwtutil"
	"chalan-service/pkg/logger"
	"chalan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an operator account and returns a fresh token. Only one
// account in the system may be registered as root.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	// Parse request
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role,omitempty"`
		IsRoot   bool   `json:"isRoot,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" {
		log.Error("Invalid registration data",
			zap.String("username", req.Username),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	if req.Role == "" {
		req.Role = model.RoleAddOnly
	}
	if !model.ValidRole(req.Role) {
		log.Error("Unknown role requested", zap.String("role", req.Role))
		prometheus.RecordAuthError("invalid_role")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	// Only one root user allowed
	if req.IsRoot {
		var count int64
		database.GetDB().Model(&model.User{}).Where("is_root = ?", true).Count(&count)
		if count > 0 {
			log.Warn("Root registration rejected, a root user already exists",
				zap.String("username", req.Username))
			prometheus.RecordAuthError("root_conflict")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Root user already exists"})
		}
	}

	// Username must be unique
	var existing model.User
	if result := database.GetDB().Where("username = ?", req.Username).First(&existing); result.Error == nil {
		log.Warn("Username already taken", zap.String("username", req.Username))
		prometheus.RecordAuthError("duplicate_username")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username already exists"})
	}

	// Hash password; plaintext is never persisted
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
		IsRoot:   req.IsRoot,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Username, user.Role, user.IsRoot)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User registered",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
		zap.Bool("is_root", user.IsRoot))

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Login verifies a username/password pair and returns a fresh token. Unknown
// users and wrong passwords produce the same response so the endpoint gives
// no username enumeration signal.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		log.Warn("Login failed, user not found", zap.String("username", req.Username))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid username or password"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Login failed, password mismatch", zap.String("username", req.Username))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid username or password"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Username, user.Role, user.IsRoot)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
