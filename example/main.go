package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	chat_backend "github.com/cydxin/chatapp-backend"
)

func main() {
	// 1. 初始化数据库连接
	dsn := "root:password@tcp(127.0.0.1:3306)/chatapp?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("数据库连接失败:", err)
	}

	// 2. 初始化 Chat Engine（单例模式，全局只需调用一次）
	engine := chat_backend.NewEngine(
		chat_backend.WithDB(db),
		//chat_backend.WithRDB(redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})), // 在线状态缓存
		chat_backend.WithTablePrefix("chat_"), // 自定义表前缀
	)

	// 3. 创建 Gin 路由
	r := gin.Default()

	// 设置 CORS（如果需要）
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 注册 Swagger UI
	chat_backend.RegisterSwagger(r, "/swagger/*any")

	// 4. API 路由组
	api := r.Group("/api/v1")
	engine.RegisterRoutes(api)

	// 5. 启动服务器
	log.Println("Chat Backend 启动在 :8080")
	log.Println("Swagger UI: http://localhost:8080/swagger/index.html")
	if err := r.Run(":8080"); err != nil {
		log.Fatal("服务器启动失败:", err)
	}
}
