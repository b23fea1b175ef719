package database

import (
	"abhishek-coaching-go/pkg/log"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go 的 SQLite 驱动，无需 CGO
)

// MemoryDSN 是内存数据库的路径，主要用于测试。
const MemoryDSN = ":memory:"

// InitSQLite 使用本地 SQLite 文件作为主存储，用于本地开发。
func InitSQLite(path string) {
	var err error
	DB, err = OpenSQLite(path)
	if err != nil {
		log.Fatal("failed to open sqlite database", err)
	}
	log.Infof("SQLite database opened at %s", path)
}

// OpenSQLite 打开一个 SQLite 数据库并返回 gorm 连接。
func OpenSQLite(path string) (*gorm.DB, error) {
	if path != MemoryDSN {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// 内存库每个连接都是独立的数据库，只能保留一个连接
	if path == MemoryDSN {
		sqlDB.SetMaxOpenConns(1)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
