package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/progress"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/repository"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/runner"
)

// errRequeue 表示消息需要重新入队，例如 worker 正在关闭
var errRequeue = errors.New("运行被中断，需要重新入队")

type worker struct {
	cfg     *config.Config
	repo    *repository.Repository
	rdb     redis.Cmdable
	metrics *progress.Metrics
	publish func(queue string, v any) error
	logger  *slog.Logger
}

func (w *worker) handle(ctx context.Context, msg domain.RunMessage) error {
	logger := w.logger.With("run", msg.RunID)

	run, err := w.repo.GetRunByID(msg.RunID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Warn("运行不存在，忽略该消息")
			return nil
		}
		return err
	}

	switch run.Status {
	case domain.RunStatusFinished, domain.RunStatusFailed:
		logger.Info("运行已经结束，忽略重复投递的消息", "status", run.Status)
		return nil
	case domain.RunStatusQueued:
		if err := w.repo.UpdateRunStatus(run, domain.RunStatusQueued, domain.RunStatusRunning, ""); err != nil {
			return err
		}
	}

	instance, err := w.repo.GetProblemInstanceByID(run.ProblemInstanceID)
	if err != nil {
		return w.fail(run, "", err)
	}

	g, err := instance.Graph()
	if err != nil {
		return w.fail(run, instance.Name, err)
	}

	r := &runner.Runner{
		Workers: w.cfg.Worker.Concurrency,
		Logger:  logger,
		NewReporter: func(index int, id string) evolution.Reporter {
			return progress.Combine(
				progress.NewRedisReporter(w.rdb, run.ID, index, id, progress.RedisOptions{
					Interval:   w.cfg.Worker.ProgressInterval,
					Expiration: time.Duration(w.cfg.Redis.ProgressExpiration) * time.Minute,
					Timeout:    time.Duration(w.cfg.Redis.OperationTimeout) * time.Second,
					Logger:     logger,
				}),
				w.metrics.Reporter(id),
			)
		},
	}

	logger.Info("开始执行运行", "instance", instance.Name, "cities", g.Size(), "runs", run.NumberRuns, "generations", run.Parameters.Generations)
	outcomes, err := r.Run(ctx, g, run.Parameters, run.NumberRuns)
	if err != nil {
		return w.fail(run, instance.Name, err)
	}

	for _, outcome := range outcomes {
		w.metrics.Observe(outcome.ID, outcome.Duration.Seconds(), outcome.Err)
	}

	// 关闭时未开始的运行会带着 context 错误返回，此时不保存结果
	if ctx.Err() != nil {
		return errRequeue
	}

	run.Results, run.Status, run.Error = collectResults(outcomes)
	if err := w.repo.FinishRun(run); err != nil {
		return err
	}

	logger.Info("运行结束", "status", run.Status)
	w.notify(run, instance.Name)
	return nil
}

// fail 把运行标记为失败，这类错误重试也无法恢复
func (w *worker) fail(run *domain.Run, instanceName string, cause error) error {
	w.logger.Error("运行失败", "run", run.ID, "error", cause)

	if err := w.repo.UpdateRunStatus(run, domain.RunStatusRunning, domain.RunStatusFailed, cause.Error()); err != nil {
		return err
	}

	w.notify(run, instanceName)
	return nil
}

// notify 通知邮件发送失败只记录日志
func (w *worker) notify(run *domain.Run, instanceName string) {
	requester, err := w.repo.GetUserByID(run.RequesterID)
	if err != nil {
		w.logger.Error("无法获取提交者信息", "run", run.ID, "error", err)
		return
	}

	costs, failed := bestCosts(run.Results)
	message := domain.MailMessage{
		Type: domain.MailTypeRunFinished,
		To:   requester.Email,
		Data: domain.RunFinishedMailData{
			FullName:     requester.FullName,
			RunID:        run.ID,
			InstanceName: instanceName,
			Status:       run.Status,
			BestCosts:    costs,
			Failed:       failed,
		},
	}

	if err := w.publish(w.cfg.RabbitMQ.EmailQueue, message); err != nil {
		w.logger.Error("无法投递通知邮件", "run", run.ID, "error", err)
	}
}
