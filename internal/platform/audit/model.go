package audit

import "time"

// Entry 是一条系统审计日志，记录每次API调用的概要。
type Entry struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	RequestID      string    `gorm:"size:36;index" json:"request_id"`
	UserEmail      string    `gorm:"size:255;index" json:"user_email"`
	Action         string    `gorm:"size:64" json:"action"`
	Endpoint       string    `gorm:"size:255" json:"endpoint"`
	Method         string    `gorm:"size:16" json:"method"`
	StatusCode     int       `json:"status_code"`
	ResponseTimeMs int       `json:"response_time_ms"`
	IPAddress      string    `gorm:"size:64" json:"ip_address"`
	UserAgent      string    `gorm:"size:255" json:"user_agent"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	// RequestData 保存查询参数的JSON快照，不记录请求体
	RequestData string    `json:"request_data,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定数据库表名
func (Entry) TableName() string {
	return "system_logs"
}
