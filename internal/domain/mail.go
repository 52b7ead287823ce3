package domain

const (
	MailTypeCreateUser  = "create_user"
	MailTypeRunFinished = "run_finished"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RunFinishedMailData struct {
	FullName     string    `json:"fullName"`
	RunID        int64     `json:"runID"`
	InstanceName string    `json:"instanceName"`
	Status       RunStatus `json:"status"`
	BestCosts    []float64 `json:"bestCosts"`
	Failed       int       `json:"failed"`
}
