package constants

// 订单状态常量
const (
	OrderStatusNew              = "new"
	OrderStatusAwaitingShipment = "awaiting_shipment"
	OrderStatusPaid             = "paid"
	OrderStatusShipped          = "shipped"
	OrderStatusCompleted        = "completed"
	OrderStatusCancelled        = "cancelled"
	OrderStatusPaymentFailed    = "payment_failed"
)

// 支付状态常量
const (
	PaymentStatusPending    = "pending"
	PaymentStatusAuthorized = "authorized"
	PaymentStatusPaid       = "paid"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

// 配送状态常量
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
)

// 支付方式编码常量
const (
	PaymentMethodCOD  = "cod"
	PaymentMethodCard = "card"
	PaymentMethodBank = "bank"
)

// 配送方式编码常量
const (
	DeliveryMethodStandard = "standard"
	DeliveryMethodExpress  = "express"
)

// 用户角色常量
const (
	UserRoleClient  = "client"
	UserRoleManager = "manager"
	UserRoleAdmin   = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 结算回调结果常量
const (
	SettleOutcomeSuccess = "success"
	SettleOutcomeFailure = "failure"
)

// 目录排序常量
const (
	CatalogSortPriceAsc   = "price_asc"
	CatalogSortPriceDesc  = "price_desc"
	CatalogSortRatingAsc  = "rating_asc"
	CatalogSortRatingDesc = "rating_desc"
	CatalogSortPopular    = "popular"
	CatalogSortNew        = "new"
)

// 评分边界常量
const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)

// 用户设置常量
const (
	SettingsThemeLight          = "light"
	SettingsThemeDark           = "dark"
	SettingsDateFormatDefault   = "Y-m-d"
	SettingsNumberFormatDefault = "1 234,56"
	SettingsPageSizeDefault     = 12
	SettingsPageSizeMin         = 1
	SettingsPageSizeMax         = 100
)

// 通知业务类型常量
const (
	NotificationBizTypeOrder    = "order"
	NotificationBizTypePayment  = "payment"
	NotificationBizTypeDelivery = "delivery"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderNotification = "order:notification"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "mm"
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)
