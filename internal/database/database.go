// Package database 负责创建 MySQL 连接并执行迁移。
package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"gateway.example/filter-gateway/internal/models"
)

// NewConnection 创建并返回一个新的数据库连接。
// 不使用全局单例，依赖关系由调用方显式传递。
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(10)

	return db, nil
}

// AutoMigrate 创建或更新网关依赖的表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
