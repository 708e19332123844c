package importer

// Status 导入事件级别
type Status string

const (
	StatusInfo    Status = "info"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Event 导入运行生命周期事件（单向，fire-and-forget）
// 一次运行恰好以一个终态事件（success 或 error）收尾，之前可有若干 info
type Event struct {
	RunID    string `json:"run_id"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
	Inserted int    `json:"inserted,omitempty"`
}

// Terminal 是否为终态事件
func (e Event) Terminal() bool {
	return e.Status == StatusSuccess || e.Status == StatusError
}
