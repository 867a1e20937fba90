package chat_backend

import (
	"fmt"
	"log"
	"sync"

	"github.com/gin-gonic/gin"

	model "github.com/cydxin/chatapp-backend/models"
	"github.com/cydxin/chatapp-backend/service"
)

type ChatEngine struct {
	config *Config

	UserService    *service.UserService
	RoomService    *service.RoomService
	MemberService  *service.MemberService
	MessageService *service.MessageService
	UploadService  *service.UploadService
	CommentService *service.CommentService
	NotifyService  *service.NotificationService
}

var (
	Instance *ChatEngine
	once     sync.Once
)

// NewEngine 创建实例
// 使用选项模式传入配置，Option回调
func NewEngine(opts ...Option) *ChatEngine {
	once.Do(func() {
		c := &Config{
			TablePrefix: "chat_", // Default
		}
		for _, opt := range opts {
			opt(c)
		}

		Instance = &ChatEngine{config: c}

		// 初始化基础 Service
		baseService := &service.Service{
			DB:              c.DB,
			RDB:             c.RDB,
			TablePrefix:     c.TablePrefix,
			NotifyBodyLimit: c.NotifyBodyLimit,
		}

		// 通知服务先于其它服务：所有扇出都走它
		baseService.Notify = service.NewNotificationService(baseService)
		if c.RDB != nil {
			baseService.Presence = service.NewPresenceService(c.RDB)
		}

		// 初始化各个 Service
		Instance.NotifyService = baseService.Notify
		Instance.UserService = service.NewUserService(baseService)
		Instance.RoomService = service.NewRoomService(baseService)
		Instance.MemberService = service.NewMemberService(baseService)
		Instance.MessageService = service.NewMessageService(baseService)
		Instance.UploadService = service.NewUploadService(baseService)
		Instance.CommentService = service.NewCommentService(baseService)

		// 迁移表
		if err := Instance.AutoMigrate(); err != nil {
			log.Printf("AutoMigrate failed: %v", err)
		}
	})

	return Instance
}

func (c *ChatEngine) AutoMigrate() error {
	db := c.config.DB
	if db == nil {
		return fmt.Errorf("db is required")
	}
	log.Println("AutoMigrate...")
	return db.AutoMigrate(
		&model.User{},
		&model.ChatRoom{},
		&model.RoomMember{},
		&model.Message{},
		&model.Upload{},
		&model.Comment{},
		&model.PushNotification{},
	)
}

// RegisterRoutes 在给定的路由组上注册全部接口。
// 也可以不用它：所有 GinHandle* 都是公开方法，自己写路由更灵活。
func (c *ChatEngine) RegisterRoutes(api *gin.RouterGroup) {
	userAPI := api.Group("/user")
	{
		userAPI.POST("/create", c.GinHandleCreateUser)
		userAPI.POST("/update", c.GinHandleUpdateUser)
		userAPI.GET("/list", c.GinHandleGetUsers)
		userAPI.GET("/online", c.GinHandleGetOnlineUsers)
	}

	roomAPI := api.Group("/room")
	{
		roomAPI.POST("/create", c.GinHandleCreateRoom)
		roomAPI.GET("/list", c.GinHandleGetUserRooms)
		roomAPI.POST("/member/add", c.GinHandleAddRoomMember)
	}

	messageAPI := api.Group("/message")
	{
		messageAPI.POST("/create", c.GinHandleCreateMessage)
		messageAPI.POST("/update", c.GinHandleUpdateMessage)
		messageAPI.GET("/list", c.GinHandleGetRoomMessages)
	}

	uploadAPI := api.Group("/upload")
	{
		uploadAPI.POST("/create", c.GinHandleCreateUpload)
		uploadAPI.GET("/list", c.GinHandleGetUploads)
	}

	commentAPI := api.Group("/comment")
	{
		commentAPI.POST("/create", c.GinHandleCreateComment)
		commentAPI.GET("/list", c.GinHandleGetUploadComments)
	}

	notifyAPI := api.Group("/notification")
	{
		notifyAPI.POST("/create", c.GinHandleCreateNotification)
		notifyAPI.GET("/list", c.GinHandleGetUserNotifications)
		notifyAPI.POST("/read", c.GinHandleMarkNotificationRead)
	}
}
