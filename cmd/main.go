package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gameshop_v1_202608/internal/controller"
	"gameshop_v1_202608/internal/gateway"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
	"gameshop_v1_202608/internal/router"
	"gameshop_v1_202608/internal/service"
	"gameshop_v1_202608/internal/task"
	"gameshop_v1_202608/pkg/database"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User     repository.UserRepository
	Item     repository.ItemRepository
	Pog      repository.PlayerOnGameServerRepository
	Category repository.ShopCategoryRepository
	Listing  repository.ShopListingRepository
	Order    repository.ShopOrderRepository
	Event    repository.EventOutboxRepository
	ShopUow  *repository.ShopUnitOfWork
}

// Services 服务集合
type Services struct {
	User        *service.UserService
	Authz       *service.AuthzService
	Event       *service.EventService
	Fulfillment *service.FulfillmentService
	Category    *service.ShopCategoryService
	Listing     *service.ShopListingService
	Order       *service.ShopOrderService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=gameshop password=gameshop dbname=gameshop port=5432 sslmode=disable")
	return database.InitDB(dsn,
		// User
		&model.User{}, &model.Role{},
		// Player
		&model.Player{}, &model.PlayerOnGameServer{},
		// Item
		&model.Item{},
		// Shop
		&model.ShopCategory{}, &model.ShopListingCategory{},
		&model.ShopListing{}, &model.ShopListingItem{}, &model.ShopListingRole{},
		&model.ShopOrder{},
		// Event
		&model.EventOutbox{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 事件投递 --------
	var publisher service.EventPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		p, err := service.NewKafkaPublisher(strings.Split(brokers, ","), getEnv("KAFKA_TOPIC", "gameshop-events"))
		if err != nil {
			log.Printf("警告: Kafka 初始化失败，事件仅落库: %v", err)
		} else {
			publisher = p
		}
	}
	eventSvc := service.NewEventService(repos.Event, publisher)

	// -------- 游戏服连接器 --------
	connector := gateway.NewConnectorGateway(gateway.ConnectorConfig{
		BaseURL: getEnv("CONNECTOR_BASE_URL", "http://localhost:3002"),
		Token:   getEnv("CONNECTOR_TOKEN", ""),
	})

	// -------- 业务服务 --------
	services := &Services{
		Event: eventSvc,
	}
	services.User = service.NewUserService(repos.User, repos.Pog)
	services.Authz = service.NewAuthzService(repos.User)
	services.Fulfillment = service.NewFulfillmentService(connector, eventSvc)
	services.Category = service.NewShopCategoryService(repos.Category, repos.Listing, eventSvc)
	services.Listing = service.NewShopListingService(
		repos.Listing, repos.Order, repos.Item, services.Category, eventSvc,
	)
	services.Order = service.NewShopOrderService(
		repos.ShopUow, services.Authz, services.Fulfillment, eventSvc,
	)
	// 商品下架与转草稿需要级联取消订单，订单服务构造完成后回填
	services.Listing.SetOrderCanceler(services.Order)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		User:     controller.NewUserController(services.User),
		Listing:  controller.NewShopListingController(services.Listing),
		Category: controller.NewShopCategoryController(services.Category),
		Order:    controller.NewShopOrderController(services.Order),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     repository.NewUserRepository(db),
		Item:     repository.NewItemRepository(db),
		Pog:      repository.NewPlayerOnGameServerRepository(db),
		Category: repository.NewShopCategoryRepository(db),
		Listing:  repository.NewShopListingRepository(db),
		Order:    repository.NewShopOrderRepository(db),
		Event:    repository.NewEventOutboxRepository(db),
		ShopUow:  repository.NewShopUnitOfWork(db),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	replayTask := task.NewEventReplayTask(deps.Services.Event)
	replayTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
