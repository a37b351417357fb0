package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/mesa-next/internal/cache"
	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/queue"
	"github.com/mesa-next/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	fieldValidator = validator.New()
	slugInvalidRun = regexp.MustCompile(`[^a-z0-9]+`)
	slugAccents    = strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
		"à", "a", "è", "e", "ì", "i", "ò", "o", "ù", "u", "ç", "c",
	)
)

// AuthService 后台账号认证
type AuthService struct {
	cfg              *config.Config
	accountRepo      repository.AccountRepository
	restaurantRepo   repository.RestaurantRepository
	subscriptionRepo repository.SubscriptionRepository
	captchaService   *CaptchaService
	queueClient      *queue.Client
}

// NewAuthService 创建认证服务
func NewAuthService(
	cfg *config.Config,
	accountRepo repository.AccountRepository,
	restaurantRepo repository.RestaurantRepository,
	subscriptionRepo repository.SubscriptionRepository,
	captchaService *CaptchaService,
	queueClient *queue.Client,
) *AuthService {
	return &AuthService{
		cfg:              cfg,
		accountRepo:      accountRepo,
		restaurantRepo:   restaurantRepo,
		subscriptionRepo: subscriptionRepo,
		captchaService:   captchaService,
		queueClient:      queueClient,
	}
}

// RegisterInput 餐厅注册
type RegisterInput struct {
	RestaurantName  string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Address         string
	OwnerName       string
	AcceptTerms     bool
	Captcha         CaptchaVerifyPayload
}

// RegisterResult 注册结果
type RegisterResult struct {
	Account    *models.Account
	Restaurant *models.Restaurant
}

// JWTClaims JWT 声明
type JWTClaims struct {
	AccountID    string `json:"account_id"`
	Role         string `json:"role"`
	RestaurantID string `json:"restaurant_id,omitempty"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略
func (s *AuthService) ValidatePassword(password string) error {
	minLength := 0
	if s.cfg != nil {
		minLength = s.cfg.Security.PasswordMinLength
	}
	return validatePassword(minLength, password)
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(account *models.Account) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := JWTClaims{
		AccountID:    account.ID,
		Role:         account.Role,
		RestaurantID: account.RestaurantID,
		TokenVersion: account.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// IsValidEmail 邮箱格式校验（validator 的 email 规则）
func IsValidEmail(email string) bool {
	return fieldValidator.Var(email, "required,email") == nil
}

// Register 注册餐厅：餐厅待审核，订阅为 gratis/expired，同时创建老板账号
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	name := strings.TrimSpace(input.RestaurantName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrRegisterFieldsRequired
	}
	if !IsValidEmail(email) {
		return nil, ErrEmailInvalid
	}
	if err := s.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if !input.AcceptTerms {
		return nil, ErrTermsRequired
	}
	if err := s.captchaService.Verify(constants.CaptchaSceneRegister, input.Captcha); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, ErrRegisterFieldsRequired
	}
	taken, err := s.restaurantRepo.FindByIdentifier(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, ErrSlugExists
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	accountID := uuid.NewString()
	restaurant := &models.Restaurant{
		ID:        uuid.NewString(),
		Slug:      slug,
		Name:      name,
		Phone:     strings.TrimSpace(input.Phone),
		Email:     email,
		Address:   strings.TrimSpace(input.Address),
		OwnerID:   accountID,
		Settings:  DefaultRestaurantSettings(),
		Status:    constants.RestaurantStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	subscription := &models.Subscription{
		ID:           uuid.NewString(),
		RestaurantID: restaurant.ID,
		PlanType:     constants.PlanGratis,
		Status:       constants.SubscriptionStatusExpired,
		StartDate:    now,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, err
	}
	account := &models.Account{
		ID:           accountID,
		Email:        email,
		PasswordHash: hash,
		Role:         constants.RoleRestaurantOwner,
		RestaurantID: restaurant.ID,
		OwnerName:    strings.TrimSpace(input.OwnerName),
		TokenVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	logger.Infow("restaurant_registered", "restaurant_id", restaurant.ID, "slug", slug, "account_id", account.ID)
	return &RegisterResult{Account: account, Restaurant: restaurant}, nil
}

// Login 邮箱密码登录，返回 JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Account, string, time.Time, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if account == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if account.Role == constants.RoleRestaurantOwner {
		restaurant, err := s.restaurantRepo.GetByID(ctx, account.RestaurantID)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		if restaurant == nil || restaurant.Status == constants.RestaurantStatusPending {
			return nil, "", time.Time{}, ErrRestaurantPending
		}
	}

	token, expiresAt, err := s.GenerateJWT(account)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	updated, err := s.accountRepo.Update(ctx, account.ID, func(item *models.Account) error {
		item.LastLoginAt = &now
		return nil
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetAccountAuthState(ctx, cache.BuildAccountAuthState(updated))
	return updated, token, expiresAt, nil
}

// ForgotPassword 推送找回密码任务；邮箱不存在时同样返回成功
func (s *AuthService) ForgotPassword(ctx context.Context, email, locale string, captcha CaptchaVerifyPayload) error {
	if err := s.captchaService.Verify(constants.CaptchaSceneForgotPassword, captcha); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if !IsValidEmail(email) {
		return ErrEmailInvalid
	}
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		logger.Debugw("password_reset_unknown_email")
		return nil
	}
	if s.queueClient == nil || !s.queueClient.Enabled() {
		logger.Infow("password_reset_requested", "account_id", account.ID, "queued", false)
		return nil
	}
	return s.queueClient.EnqueuePasswordReset(queue.PasswordResetPayload{
		AccountID: account.ID,
		Email:     account.Email,
		Locale:    locale,
	})
}

// GetAccount 获取账号
func (s *AuthService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

// EnsureSuperAdmin 启动时按配置保证超级管理员存在
func (s *AuthService) EnsureSuperAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(s.cfg.SuperAdmin.Email))
	password := s.cfg.SuperAdmin.Password
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now()
	err = s.accountRepo.Create(ctx, &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         constants.RoleSuperAdmin,
		TokenVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	if err == nil {
		logger.Infow("superadmin_created", "email", email)
	}
	return err
}

// Slugify 餐厅名称转 URL 标识
func Slugify(name string) string {
	slug := slugAccents.Replace(strings.ToLower(strings.TrimSpace(name)))
	slug = slugInvalidRun.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
