package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var errWrongPassword = errors.New("旧密码错误")

// runSummary 当前用户提交过的运行数量
type runSummary struct {
	Total    int `json:"total"`
	Queued   int `json:"queued"`
	Running  int `json:"running"`
	Finished int `json:"finished"`
	Failed   int `json:"failed"`
}

type myInfoResponse struct {
	*domain.User
	Runs runSummary `json:"runs"`
}

func summarizeRuns(counts map[domain.RunStatus]int) runSummary {
	summary := runSummary{
		Queued:   counts[domain.RunStatusQueued],
		Running:  counts[domain.RunStatusRunning],
		Finished: counts[domain.RunStatusFinished],
		Failed:   counts[domain.RunStatusFailed],
	}
	for _, n := range counts {
		summary.Total += n
	}
	return summary
}

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	counts, err := h.repository.CountRunsByStatus(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取个人信息成功", myInfoResponse{
		User: myInfo,
		Runs: summarizeRuns(counts),
	})
}

// changePassword 校验旧密码后写入新密码的哈希，不会访问数据库
func changePassword(user *domain.User, oldPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return nil
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8,nefield=OldPassword"`
	}
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 在副本上修改，数据库更新失败时不影响上下文中的用户
	updated := *myInfo
	if err := changePassword(&updated, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, errWrongPassword) {
			h.errorResponse(w, r, err.Error())
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.UpdateUser(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 版本号不一致，说明账户刚被修改过
			h.errorResponse(w, r, "账户信息已被修改，请重新登录后再试")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新密码成功", nil)
}
