package models

import (
	"strings"
	"time"
)

// Restaurant 餐厅（租户）
type Restaurant struct {
	ID          string             `json:"id"`
	Slug        string             `json:"slug"`
	Domain      string             `json:"domain,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Logo        string             `json:"logo,omitempty"`
	Phone       string             `json:"phone"`
	Email       string             `json:"email"`
	Address     string             `json:"address"`
	OwnerID     string             `json:"owner_id"`
	SocialMedia SocialMedia        `json:"social_media"`
	Settings    RestaurantSettings `json:"settings"`
	Status      string             `json:"status"` // pending / active / inactive
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// SocialMedia 社交账号
type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

// RestaurantSettings 餐厅展示设置
type RestaurantSettings struct {
	Theme         Theme                    `json:"theme"`
	UISettings    UISettings               `json:"ui_settings"`
	BusinessHours map[string]BusinessHours `json:"business_hours"` // monday..sunday
	Promo         Promo                    `json:"promo"`
}

// Theme 菜单主题
type Theme struct {
	PrimaryColor        string      `json:"primary_color"`
	SecondaryColor      string      `json:"secondary_color"`
	TertiaryColor       string      `json:"tertiary_color"`
	AccentColor         string      `json:"accent_color"`
	TextColor           string      `json:"text_color"`
	CardBackgroundColor string      `json:"card_background_color"`
	PrimaryTextColor    string      `json:"primary_text_color"`
	SecondaryTextColor  string      `json:"secondary_text_color"`
	PrimaryFont         string      `json:"primary_font"`
	SecondaryFont       string      `json:"secondary_font"`
	FontSizes           FontSizes   `json:"font_sizes"`
	FontWeights         FontWeights `json:"font_weights"`
	ButtonStyle         string      `json:"button_style"` // rounded / square
}

// FontSizes 字号
type FontSizes struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Normal   string `json:"normal"`
	Small    string `json:"small"`
}

// FontWeights 字重
type FontWeights struct {
	Light   string `json:"light"`
	Regular string `json:"regular"`
	Medium  string `json:"medium"`
	Bold    string `json:"bold"`
}

// UISettings 布局设置
type UISettings struct {
	LayoutType string `json:"layout_type"`
}

// BusinessHours 单日营业时间
type BusinessHours struct {
	IsOpen bool   `json:"is_open"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
}

// Promo 促销横幅
type Promo struct {
	Enabled     bool   `json:"enabled"`
	PromoText   string `json:"promo_text,omitempty"`
	CTAText     string `json:"cta_text,omitempty"`
	BannerImage string `json:"banner_image,omitempty"`
}

// MatchesIdentifier 按 slug、ID 或域名匹配
func (r *Restaurant) MatchesIdentifier(identifier string) bool {
	if r == nil {
		return false
	}
	id := strings.TrimSpace(identifier)
	if id == "" {
		return false
	}
	return r.Slug == id || r.ID == id || (r.Domain != "" && strings.EqualFold(r.Domain, id))
}

// Subscription 订阅
type Subscription struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurant_id"`
	PlanType     string     `json:"plan_type"` // gratis / basic / pro / business
	Status       string     `json:"status"`    // active / expired
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}
