package service

import "errors"

// 服务层哨兵错误，处理器按 errors.Is 映射为响应码
var (
	ErrNotFound     = errors.New("记录不存在")
	ErrUnauthorized = errors.New("无权执行该操作")

	// 用户与认证
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrUsernameInvalid    = errors.New("用户名不合法")
	ErrUsernameExists     = errors.New("用户名已被占用")
	ErrPasswordTooWeak    = errors.New("密码长度不能少于 6 位")

	// 商品与目录
	ErrProductNotFound     = errors.New("商品不存在")
	ErrProductNotAvailable = errors.New("商品不可购买")

	// 购物车
	ErrCartEmpty          = errors.New("购物车为空")
	ErrCartItemInvalid    = errors.New("购物车参数无效")
	ErrCartQuantityExceed = errors.New("加购数量超过当前库存")

	// 下单与结算
	ErrAddressRequired       = errors.New("收货地址不能为空")
	ErrPaymentMethodInvalid  = errors.New("支付方式无效")
	ErrDeliveryMethodInvalid = errors.New("配送方式无效")
	ErrOutOfStock            = errors.New("库存不足")
	ErrOrderCreateFailed     = errors.New("订单创建失败")
	ErrOrderNotFound         = errors.New("订单不存在")
	ErrOrderFetchFailed      = errors.New("订单查询失败")
	ErrOrderUpdateFailed     = errors.New("订单更新失败")
	ErrOrderStatusInvalid    = errors.New("订单状态流转不合法")
	ErrOrderAlreadyCanceled  = errors.New("订单已取消")

	// 支付
	ErrPaymentNotFound       = errors.New("支付记录不存在")
	ErrPaymentStatusInvalid  = errors.New("支付状态流转不合法")
	ErrPaymentAmountMismatch = errors.New("支付金额与订单金额不一致")
	ErrSettleOutcomeInvalid  = errors.New("结算结果无效")

	// 配送
	ErrDeliveryNotFound      = errors.New("配送记录不存在")
	ErrDeliveryStatusInvalid = errors.New("配送状态流转不合法")

	// 评论
	ErrReviewRatingInvalid = errors.New("评分必须在 1 到 5 之间")
	ErrReviewExists        = errors.New("已评论过该商品")

	// 用户设置
	ErrSettingsThemeInvalid = errors.New("主题仅支持 light/dark")
	ErrSavedFilterNotFound  = errors.New("未找到保存的筛选条件")

	// 仪表盘
	ErrDashboardRangeInvalid = errors.New("统计时间范围无效")
)
