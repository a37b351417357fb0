package queue

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 厨房小票等普通任务队列
const DefaultQueue = constants.QueueDefault

const (
	orderPlacedMaxRetry    = 5
	passwordResetUniqueTTL = 10 * time.Minute
	defaultConcurrency     = 10
)

// Client 队列客户端；未启用时所有投递为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(buildRedisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderPlaced 推送新订单任务；任务 ID 取订单号，重复投递被忽略
func (c *Client) EnqueueOrderPlaced(payload OrderPlacedPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderPlacedTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(orderPlacedMaxRetry),
		asynq.TaskID(orderPlacedTaskID(payload.OrderID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// EnqueuePasswordReset 推送找回密码任务，同一账号 10 分钟内只保留一条
func (c *Client) EnqueuePasswordReset(payload PasswordResetPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPasswordResetTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(constants.QueueCritical),
		asynq.Unique(passwordResetUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func orderPlacedTaskID(orderID string) string {
	return TaskOrderPlaced + ":" + strings.TrimSpace(orderID)
}

// BuildServerConfig 生成 worker 配置；找回密码队列权重高于厨房小票
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 3, constants.QueueCritical: 6},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
