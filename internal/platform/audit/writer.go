package audit

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/lingua-rtt/translator-backend/pkg/lifecycle"
)

const submitQueueSize = 4096

// Writer 把审计日志的落库从请求路径上摘下来：
// 请求侧只投递到channel，单个后台goroutine负责批量写入。
type Writer struct {
	db    *gorm.DB
	queue chan Entry
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{
		db:    db,
		queue: make(chan Entry, submitQueueSize),
	}
}

// Submit 以非阻塞方式投递一条日志，队列满时丢弃并打警告。
func (w *Writer) Submit(entry Entry) {
	select {
	case w.queue <- entry:
	default:
		fmt.Printf("警告: 审计日志队列已满，丢弃 %s %s 的记录\n", entry.Method, entry.Endpoint)
	}
}

// Start 启动后台写入goroutine，收到停机信号后排空队列再退出。
func (w *Writer) Start(handle *lifecycle.Handle) {
	go func() {
		defer handle.Close()
		fmt.Println("审计日志写入器已启动")

		for {
			select {
			case entry := <-w.queue:
				w.persist(entry)
			case <-handle.Done():
				w.drain()
				fmt.Println("审计日志写入器已退出")
				return
			}
		}
	}()
}

// drain 在停机时把队列里剩余的日志全部写完。
func (w *Writer) drain() {
	for {
		select {
		case entry := <-w.queue:
			w.persist(entry)
		default:
			return
		}
	}
}

func (w *Writer) persist(entry Entry) {
	if err := w.db.Create(&entry).Error; err != nil {
		fmt.Printf("警告: 写入审计日志失败: %v\n", err)
	}
}

// Migrate 执行本模块的表结构迁移。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Entry{})
}
