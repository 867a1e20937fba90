package chat_backend

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/cydxin/chatapp-backend/models"
)

// MigrateNotificationData 迁移 push_notification 表的 data 列从 TEXT 到 JSON
// 早期版本把通知负载存成 TEXT，新版本用 datatypes.JSON 映射到 MySQL JSON 列。
// 列里已有的内容本身就是合法 JSON 字符串，可以原地转换，不丢数据。
func (c *ChatEngine) MigrateNotificationData() error {
	db := c.config.DB
	if db == nil {
		return fmt.Errorf("db is required")
	}
	tableName := c.config.TablePrefix + "push_notification"

	log.Printf("开始迁移 %s 表的 data 列...", tableName)

	if !db.Migrator().HasTable(tableName) {
		log.Printf("表 %s 不存在，跳过迁移", tableName)
		return nil
	}

	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return fmt.Errorf("获取列类型失败: %v", err)
	}

	var needsMigration bool
	for _, col := range columnTypes {
		if col.Name() == "data" {
			dbType := col.DatabaseTypeName()
			if dbType == "TEXT" || dbType == "LONGTEXT" || dbType == "VARCHAR" {
				needsMigration = true
				log.Printf("检测到 data 列类型为 %s，需要迁移到 JSON", dbType)
			} else {
				log.Printf("data 列类型为 %s，无需迁移", dbType)
			}
			break
		}
	}

	if !needsMigration {
		log.Println("data 列类型正确，无需迁移")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// 验证表名格式（只允许字母、数字和下划线）
		if !isValidTableName(tableName) {
			return fmt.Errorf("invalid table name: %s", tableName)
		}

		// 1. 清理非法内容：空串和无法解析的 JSON 统一置 NULL，
		//    否则 MODIFY COLUMN 会在第一行坏数据上失败
		log.Println("步骤 1: 清理非法 JSON 内容...")
		if err := tx.Exec(fmt.Sprintf(
			"UPDATE `%s` SET `data` = NULL WHERE `data` = '' OR JSON_VALID(`data`) = 0",
			tableName,
		)).Error; err != nil {
			return fmt.Errorf("清理非法内容失败: %v", err)
		}

		// 2. 修改列类型（MySQL/MariaDB）
		log.Println("步骤 2: 修改 data 列类型...")
		if err := tx.Exec(fmt.Sprintf(
			"ALTER TABLE `%s` MODIFY COLUMN `data` JSON NULL",
			tableName,
		)).Error; err != nil {
			return fmt.Errorf("修改列类型失败: %v", err)
		}

		// 3. 确保用户维度索引存在
		log.Println("步骤 3: 确保索引存在...")
		if !tx.Migrator().HasIndex(&models.PushNotification{}, "user_id") {
			if err := tx.Migrator().CreateIndex(&models.PushNotification{}, "user_id"); err != nil {
				log.Printf("创建索引警告: %v", err)
			}
		}

		log.Println("迁移完成！")
		return nil
	})
}

// isValidTableName 验证表名格式，防止 SQL 注入
func isValidTableName(name string) bool {
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return len(name) > 0 && len(name) < 64 // MySQL 表名最大 64 字符
}
