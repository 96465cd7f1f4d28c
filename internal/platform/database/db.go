package database

import (
	"fmt"
	"log"
	"os"

	"github.com/lingua-rtt/translator-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的GORM实例，供项目其他部分使用
var DB *gorm.DB

// InitDB 根据配置初始化数据库连接
// dialect 为 sqlite 时 DSN 是文件路径，为 postgres 时是标准连接串
func InitDB(cfg config.DatabaseConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	gormCfg := &gorm.Config{Logger: newLogger}

	switch cfg.Dialect {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	case "sqlite", "":
		DB, err = gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	default:
		panic("不支持的数据库类型: " + cfg.Dialect)
	}

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}
