package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// incoming 与 domain.MailMessage 相同，但 Data 延迟到确定类型之后再解析
type incoming struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

type mailTemplate struct {
	subject string
	tmpl    *template.Template
	// data 返回用于解析 Data 的空结构体
	data func() any
}

func loadTemplates(dir string) (map[string]mailTemplate, error) {
	files := []struct {
		mailType string
		file     string
		subject  string
		data     func() any
	}{
		{domain.MailTypeCreateUser, "create_user_email.html", "TSP Evolver - 账户信息", func() any { return &domain.CreateUserMailData{} }},
		{domain.MailTypeRunFinished, "run_finished_email.html", "TSP Evolver - 运行结果", func() any { return &domain.RunFinishedMailData{} }},
	}

	templates := make(map[string]mailTemplate, len(files))
	for _, f := range files {
		tmpl, err := template.ParseFiles(filepath.Join(dir, f.file))
		if err != nil {
			return nil, err
		}
		templates[f.mailType] = mailTemplate{subject: f.subject, tmpl: tmpl, data: f.data}
	}

	return templates, nil
}

func buildMessage(from string, body []byte, templates map[string]mailTemplate) (*mail.Msg, error) {
	var in incoming
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	t, ok := templates[in.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型 %q", in.Type)
	}

	data := t.data()
	if err := json.Unmarshal(in.Data, data); err != nil {
		return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, err
	}
	if err := m.To(in.To); err != nil {
		return nil, err
	}
	m.Subject(t.subject)
	if err := m.SetBodyHTMLTemplate(t.tmpl, data); err != nil {
		return nil, err
	}

	return m, nil
}
