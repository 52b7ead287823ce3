package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func researcher(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: 7, Username: "zhangs", PasswordHash: string(hash), Role: domain.RoleResearcher, IsActive: true}
}

func TestSummarizeRuns(t *testing.T) {
	summary := summarizeRuns(map[domain.RunStatus]int{
		domain.RunStatusQueued:   1,
		domain.RunStatusFinished: 4,
		domain.RunStatusFailed:   2,
	})

	assert.Equal(t, runSummary{Total: 7, Queued: 1, Finished: 4, Failed: 2}, summary)
	assert.Equal(t, runSummary{}, summarizeRuns(nil))
}

func TestMyInfoResponseJSON(t *testing.T) {
	data, err := json.Marshal(myInfoResponse{
		User: &domain.User{ID: 7, Username: "zhangs", PasswordHash: "secret"},
		Runs: runSummary{Total: 3, Finished: 3},
	})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"username":"zhangs"`)
	assert.Contains(t, string(data), `"runs":{"total":3,"queued":0,"running":0,"finished":3,"failed":0}`)
	assert.NotContains(t, string(data), "secret")
}

func TestChangePassword(t *testing.T) {
	user := researcher(t, "old-password")

	require.ErrorIs(t, changePassword(user, "wrong", "new-password"), errWrongPassword)

	require.NoError(t, changePassword(user, "old-password", "new-password"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password")))
}

func TestUpdateMyPasswordRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"新密码过短", `{"oldPassword":"old-password","newPassword":"short"}`, ""},
		{"新旧密码相同", `{"oldPassword":"old-password","newPassword":"old-password"}`, ""},
		{"旧密码错误", `{"oldPassword":"not-my-password","newPassword":"new-password"}`, "旧密码错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			me := researcher(t, "old-password")
			hash := me.PasswordHash

			rec := httptest.NewRecorder()
			req := withValue(httptest.NewRequest(http.MethodPatch, "/my-info/password", strings.NewReader(tt.body)), MyInfoCtx, me)
			h.UpdateMyPassword(rec, req)

			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			if tt.want != "" {
				assert.Equal(t, tt.want, resp.Message)
			}
			assert.Equal(t, hash, me.PasswordHash)
		})
	}
}
