package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
)

func render(t *testing.T, message domain.MailMessage) (string, error) {
	t.Helper()

	templates, err := loadTemplates("../../templates")
	require.NoError(t, err)

	body, err := json.Marshal(message)
	require.NoError(t, err)

	m, err := buildMessage("noreply@example.com", body, templates)
	if err != nil {
		return "", err
	}

	buf := &bytes.Buffer{}
	_, err = m.WriteTo(buf)
	require.NoError(t, err)
	return buf.String(), nil
}

func TestBuildRunFinishedMessage(t *testing.T) {
	content, err := render(t, domain.MailMessage{
		Type: domain.MailTypeRunFinished,
		To:   "researcher@example.com",
		Data: domain.RunFinishedMailData{
			FullName:     "张伟",
			RunID:        42,
			InstanceName: "burma14",
			Status:       domain.RunStatusFinished,
			BestCosts:    []float64{3323, 3346},
			Failed:       1,
		},
	})
	require.NoError(t, err)

	assert.Contains(t, content, "researcher@example.com")
	assert.Contains(t, content, "noreply@example.com")
}

func TestBuildCreateUserMessage(t *testing.T) {
	_, err := render(t, domain.MailMessage{
		Type: domain.MailTypeCreateUser,
		To:   "new@example.com",
		Data: domain.CreateUserMailData{FullName: "李明", Username: "liming", Password: "secret"},
	})
	assert.NoError(t, err)
}

func TestBuildMessageRejects(t *testing.T) {
	templates, err := loadTemplates("../../templates")
	require.NoError(t, err)

	_, err = buildMessage("noreply@example.com", []byte("not json"), templates)
	assert.Error(t, err)

	_, err = buildMessage("noreply@example.com", []byte(`{"type":"reset_password","to":"a@example.com","data":{}}`), templates)
	assert.ErrorContains(t, err, "不支持的邮件类型")

	_, err = buildMessage("noreply@example.com", []byte(`{"type":"create_user","to":"not-an-email","data":{}}`), templates)
	assert.Error(t, err)
}
