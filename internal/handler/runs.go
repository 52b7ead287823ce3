package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/progress"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/report"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/utils"
)

// 可选参数为空时使用 EVOLUTION_ 配置中的默认值
type createRunRequest struct {
	ProblemInstanceID int64  `json:"problemInstanceID" validate:"required,gt=0"`
	Crossover         string `json:"crossover" validate:"omitempty,oneof=fix ordered"`
	Mutation          string `json:"mutation" validate:"omitempty,oneof=inversion single multiple"`
	PopulationSize    *int   `json:"populationSize" validate:"omitempty,min=10"`
	TournamentSize    *int   `json:"tournamentSize" validate:"omitempty,min=2"`
	Generations       *int   `json:"generations" validate:"omitempty,min=1"`
	NumberRuns        *int   `json:"numberRuns" validate:"omitempty,min=1"`
}

func (req *createRunRequest) applyDefaults(crossover, mutation string, populationSize, tournamentSize, generations, numberRuns int) {
	if req.Crossover == "" {
		req.Crossover = crossover
	}
	if req.Mutation == "" {
		req.Mutation = mutation
	}
	if req.PopulationSize == nil {
		req.PopulationSize = &populationSize
	}
	if req.TournamentSize == nil {
		req.TournamentSize = &tournamentSize
	}
	if req.Generations == nil {
		req.Generations = &generations
	}
	if req.NumberRuns == nil {
		req.NumberRuns = &numberRuns
	}
}

func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req createRunRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	defaults := h.config.Evolution
	req.applyDefaults(defaults.Crossover, defaults.Mutation, defaults.PopulationSize, defaults.TournamentSize, defaults.Generations, defaults.NumberRuns)

	instance, err := h.repository.GetProblemInstanceByID(req.ProblemInstanceID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "问题实例不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	params, err := utils.ParseParameters(req.Crossover, req.Mutation, *req.PopulationSize, *req.TournamentSize, *req.Generations, instance.CityCount)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateNumberRuns(*req.NumberRuns, defaults.MaxNumberRuns); err != nil {
		h.badRequest(w, r, err)
		return
	}

	run := &domain.Run{
		ProblemInstanceID: instance.ID,
		RequesterID:       myInfo.ID,
		Parameters:        params,
		NumberRuns:        *req.NumberRuns,
	}
	if err := h.repository.CreateRun(run); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publish(h.config.RabbitMQ.SimulationQueue, domain.RunMessage{RunID: run.ID}); err != nil {
		// 投递失败的运行永远不会被执行，直接标记为失败
		if updateErr := h.repository.UpdateRunStatus(run, domain.RunStatusQueued, domain.RunStatusFailed, "无法投递到消息队列"); updateErr != nil {
			h.logInternalServerError(r, updateErr)
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "运行已提交", run)
}

// GetAllRuns 管理员可以看到所有运行，研究员只能看到自己的
func (h *Handler) GetAllRuns(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	requesterID := myInfo.ID
	if myInfo.Role == domain.RoleAdmin {
		requesterID = 0
	}

	runs, err := h.repository.GetAllRuns(requesterID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取运行列表成功", runs)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(RunCtx).(*domain.Run)

	results, err := h.repository.GetRunResults(run.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	run.Results = results

	h.successResponse(w, r, "获取运行成功", run)
}

func (h *Handler) GetRunProgress(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(RunCtx).(*domain.Run)

	if run.Status == domain.RunStatusQueued {
		h.successResponse(w, r, "运行尚未开始", []*progress.Snapshot{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	snapshots, err := progress.ReadAll(ctx, h.redisClient, run.ID, run.NumberRuns)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取运行进度成功", snapshots)
}

// GetRunReport 只统计成功完成的运行，statistic 默认为 best，mode 默认为 range
func (h *Handler) GetRunReport(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(RunCtx).(*domain.Run)

	statisticParam := r.URL.Query().Get("statistic")
	if statisticParam == "" {
		statisticParam = report.StatisticBest.String()
	}
	modeParam := r.URL.Query().Get("mode")
	if modeParam == "" {
		modeParam = report.ModeRange.String()
	}

	statistic, err := report.ParseStatistic(statisticParam)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	mode, err := report.ParseMode(modeParam)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if run.Status != domain.RunStatusFinished {
		h.errorResponse(w, r, "运行尚未完成")
		return
	}

	results, err := h.repository.GetRunResults(run.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	histories := make([]report.History, 0, len(results))
	for _, result := range results {
		if result.Error != "" {
			continue
		}
		histories = append(histories, report.History{
			Run:     result.Index,
			Best:    result.BestHistory,
			Worst:   result.WorstHistory,
			Average: result.AverageHistory,
		})
	}

	rep, err := report.Build(histories, statistic, mode)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNoData):
			h.errorResponse(w, r, "没有成功完成的运行")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取运行报告成功", rep)
}
