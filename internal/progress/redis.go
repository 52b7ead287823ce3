package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

// Snapshot 保存在 redis 哈希中的最新进度
type Snapshot struct {
	Index       int     `redis:"index" json:"index"`
	RunUUID     string  `redis:"run_uuid" json:"runUUID"`
	Generation  int     `redis:"generation" json:"generation"`
	Generations int     `redis:"generations" json:"generations"`
	Best        float64 `redis:"best" json:"best"`
	Worst       float64 `redis:"worst" json:"worst"`
	Average     float64 `redis:"average" json:"average"`
	UpdatedAt   int64   `redis:"updated_at" json:"updatedAt"`
}

func Key(runID int64, index int) string {
	return fmt.Sprintf("run_%d_progress_%d", runID, index)
}

type RedisReporter struct {
	client   redis.Cmdable
	key      string
	index    int
	runUUID  string
	interval int
	ttl      time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

type RedisOptions struct {
	Interval   int
	Expiration time.Duration
	Timeout    time.Duration
	Logger     *slog.Logger
}

func NewRedisReporter(client redis.Cmdable, runID int64, index int, runUUID string, opts RedisOptions) *RedisReporter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisReporter{
		client:   client,
		key:      Key(runID, index),
		index:    index,
		runUUID:  runUUID,
		interval: opts.Interval,
		ttl:      opts.Expiration,
		timeout:  opts.Timeout,
		logger:   logger,
	}
}

func (r *RedisReporter) snapshot(stats evolution.Statistics) Snapshot {
	return Snapshot{
		Index:       r.index,
		RunUUID:     r.runUUID,
		Generation:  stats.Generation,
		Generations: stats.Generations,
		Best:        stats.Best,
		Worst:       stats.Worst,
		Average:     stats.Average,
		UpdatedAt:   time.Now().Unix(),
	}
}

// Report 写入失败只记录日志，不影响进化过程
func (r *RedisReporter) Report(stats evolution.Statistics) {
	if !due(stats, r.interval) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key, r.snapshot(stats))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("无法写入运行进度", "key", r.key, "error", err)
	}
}

// Read 读取第 index 次运行的最新进度，不存在时返回 redis.Nil
func Read(ctx context.Context, client redis.Cmdable, runID int64, index int) (*Snapshot, error) {
	cmd := client.HGetAll(ctx, Key(runID, index))
	values, err := cmd.Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, redis.Nil
	}

	snapshot := &Snapshot{}
	if err := cmd.Scan(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ReadAll 读取一个 Run 所有运行的进度，尚未开始的运行会被跳过
func ReadAll(ctx context.Context, client redis.Cmdable, runID int64, runs int) ([]*Snapshot, error) {
	snapshots := make([]*Snapshot, 0, runs)
	for i := 0; i < runs; i++ {
		snapshot, err := Read(ctx, client, runID, i)
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// Clear 删除一个 Run 的所有进度
func Clear(ctx context.Context, client redis.Cmdable, runID int64, runs int) error {
	keys := make([]string, runs)
	for i := range keys {
		keys[i] = Key(runID, i)
	}
	if len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
