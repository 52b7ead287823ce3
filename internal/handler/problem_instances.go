package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/tsplib"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/utils"
)

/**
 * CreateProblemInstance 支持两种上传方式
 * multipart/form-data：file 字段为 TSPLIB XML 文件，name 和 description 可以覆盖文件中的值
 * application/json：直接给出代价矩阵
 */
func (h *Handler) CreateProblemInstance(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		instance *domain.ProblemInstance
		err      error
	)
	switch mediaType {
	case "multipart/form-data":
		instance, err = h.problemInstanceFromXML(w, r)
	default:
		instance, err = h.problemInstanceFromMatrix(w, r)
	}
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateProblemInstance(instance); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "problem_instances_slug_key":
			h.errorResponse(w, r, "同名的问题实例已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 列表中不返回代价图，这里保持一致
	instance.Vertices = nil
	h.successResponse(w, r, "创建问题实例成功", instance)
}

func (h *Handler) problemInstanceFromXML(w http.ResponseWriter, r *http.Request) (*domain.ProblemInstance, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadSize); err != nil {
		return nil, errors.New("上传的文件过大或格式错误")
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("缺少 TSPLIB 文件")
	}
	defer file.Close()

	parsed, err := tsplib.Parse(file)
	if err != nil {
		return nil, err
	}
	g, err := parsed.Graph()
	if err != nil {
		return nil, err
	}

	name := parsed.Name
	if v := r.FormValue("name"); v != "" {
		name = v
	}
	description := parsed.Description
	if v := r.FormValue("description"); v != "" {
		description = v
	}
	if name == "" {
		return nil, errors.New("问题实例名称不能为空")
	}

	return utils.NewProblemInstance(name, parsed.Source, description, g.Vertices()), nil
}

func (h *Handler) problemInstanceFromMatrix(w http.ResponseWriter, r *http.Request) (*domain.ProblemInstance, error) {
	var req struct {
		Name        string      `json:"name" validate:"required,max=128"`
		Source      string      `json:"source" validate:"max=256"`
		Description string      `json:"description"`
		Matrix      [][]float64 `json:"matrix" validate:"required,min=2"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := utils.ValidateCostMatrix(req.Matrix); err != nil {
		return nil, err
	}

	g, err := evolution.NewGraphFromMatrix(req.Matrix)
	if err != nil {
		return nil, err
	}

	return utils.NewProblemInstance(req.Name, req.Source, req.Description, g.Vertices()), nil
}

func (h *Handler) GetAllProblemInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := h.repository.GetAllProblemInstances()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取问题实例列表成功", instances)
}

func (h *Handler) GetProblemInstance(w http.ResponseWriter, r *http.Request) {
	instance := r.Context().Value(ProblemInstanceCtx).(*domain.ProblemInstance)
	h.successResponse(w, r, "获取问题实例成功", instance)
}

func (h *Handler) DeleteProblemInstance(w http.ResponseWriter, r *http.Request) {
	instance := r.Context().Value(ProblemInstanceCtx).(*domain.ProblemInstance)

	if err := h.repository.DeleteProblemInstance(instance.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "runs_problem_instance_id_fkey":
			h.errorResponse(w, r, "该问题实例仍被运行记录引用，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除问题实例成功", nil)
}
