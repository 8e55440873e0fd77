package router

import (
	"github.com/gin-gonic/gin"

	"gameshop_v1_202608/internal/controller"
	"gameshop_v1_202608/internal/middleware"
	"gameshop_v1_202608/internal/model"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	User     *controller.UserController
	Listing  *controller.ShopListingController
	Category *controller.ShopCategoryController
	Order    *controller.ShopOrderController
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctrls *Controllers) {
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			auth.POST("/register", ctrls.User.Register)
			auth.POST("/login", ctrls.User.Login)
			auth.POST("/refresh", ctrls.User.RefreshToken)
		}

		// 以下路由全部要求登录
		authed := api.Group("")
		authed.Use(middleware.JWTAuth())
		{
			// 当前用户
			users := authed.Group("/users")
			{
				users.GET("/me", ctrls.User.Me)
				users.POST("/me/link-player", ctrls.User.LinkPlayer)
			}

			// 商品。买家可浏览，增删改仅限管理员
			listings := authed.Group("/shop/listings")
			{
				listings.GET("", ctrls.Listing.ListListings)
				listings.GET("/:id", ctrls.Listing.GetListing)

				admin := listings.Group("")
				admin.Use(middleware.RequireRole(model.UserRoleAdmin))
				{
					admin.POST("", ctrls.Listing.CreateListing)
					admin.PUT("/:id", ctrls.Listing.UpdateListing)
					admin.DELETE("/:id", ctrls.Listing.DeleteListing)
					admin.POST("/import", ctrls.Listing.ImportListings)
					admin.POST("/:id/roles", ctrls.Listing.AddListingRole)
					admin.DELETE("/:id/roles/:roleId", ctrls.Listing.RemoveListingRole)
				}
			}

			// 分类。浏览公开，维护仅限管理员
			categories := authed.Group("/shop/categories")
			{
				categories.GET("", ctrls.Category.GetCategoryTree)
				categories.GET("/:id", ctrls.Category.GetCategory)

				admin := categories.Group("")
				admin.Use(middleware.RequireRole(model.UserRoleAdmin))
				{
					admin.POST("", ctrls.Category.CreateCategory)
					admin.PUT("/:id", ctrls.Category.UpdateCategory)
					admin.PUT("/:id/move", ctrls.Category.MoveCategory)
					admin.DELETE("/:id", ctrls.Category.DeleteCategory)
					admin.POST("/bulk-assign", ctrls.Category.BulkAssignCategories)
				}
			}

			// 订单。归属校验在服务层完成
			orders := authed.Group("/shop/orders")
			{
				orders.POST("", ctrls.Order.CreateOrder)
				orders.GET("", ctrls.Order.ListOrders)
				orders.GET("/:id", ctrls.Order.GetOrder)
				orders.POST("/:id/claim", ctrls.Order.ClaimOrder)
				orders.POST("/:id/cancel", ctrls.Order.CancelOrder)
			}
		}
	}
}
