package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 配送方式常量
const (
	DeliveryModePickup   = "pickup"
	DeliveryModeDineIn   = "dine-in"
	DeliveryModeDelivery = "delivery"
)

// DefaultMaxLineQuantity 购物车单行数量上限默认值
const DefaultMaxLineQuantity = 99

// 商品状态常量
const (
	ProductStatusActive     = "active"
	ProductStatusOutOfStock = "out_of_stock"
	ProductStatusArchived   = "archived"
)

// 餐厅状态常量
const (
	RestaurantStatusPending  = "pending"
	RestaurantStatusActive   = "active"
	RestaurantStatusInactive = "inactive"
)

// 订阅计划与状态常量
const (
	PlanGratis   = "gratis"
	PlanBasic    = "basic"
	PlanPro      = "pro"
	PlanBusiness = "business"

	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
)

// 账号角色常量
const (
	RoleSuperAdmin      = "superadmin"
	RoleRestaurantOwner = "restaurant_owner"
)

// 存储集合名称
const (
	CollectionRestaurants   = "restaurants"
	CollectionCategories    = "categories"
	CollectionProducts      = "products"
	CollectionSubscriptions = "subscriptions"
	CollectionOrders        = "orders"
	CollectionAccounts      = "accounts"
)

// 存储驱动常量
const (
	StorageDriverMemory   = "memory"
	StorageDriverDatabase = "database"
	StorageDriverRedis    = "redis"
)

// 通知驱动常量
const (
	NotifyDriverMemory = "memory"
	NotifyDriverRedis  = "redis"
	NotifyDriverAMQP   = "amqp"
)

// 通知事件
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderPlaced   = "order:placed"
	TaskPasswordReset = "account:password_reset"
)

// 结账默认值
const (
	DefaultPhonePrefix = "+57"
	MenuCategoryAll    = "all"
)

// 验证码场景
const (
	CaptchaSceneRegister       = "register"
	CaptchaSceneForgotPassword = "forgot_password"
)
