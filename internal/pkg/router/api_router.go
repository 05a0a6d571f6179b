package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/magforge/pressdesk/app/controllers"
	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "PressDesk API",
		})
	})

	v1 := api.Group("/v1")
	h.registerPublicRoutes(v1)
	h.registerUserRoutes(v1)
	h.registerStaffRoutes(v1)
	h.registerAdminRoutes(v1)
}

// registerPublicRoutes wires everything reachable without a login.
// Only this surface is rate limited; authenticated traffic is already
// bounded by token issuance.
func (h ApiRouter) registerPublicRoutes(v1 fiber.Router) {
	rate := limiter.New(limiter.Config{Max: 60})

	auth := v1.Group("/auth", rate)
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/refresh", controllers.HandleRefresh)
	auth.Post("/logout", controllers.HandleLogout)

	v1.Get("/plans", rate, controllers.HandlePlanList)

	reader := v1.Group("/reader", rate, middleware.OptionalAuth())
	reader.Get("/feed", controllers.HandleReaderFeed)
	reader.Get("/editions/:id/sections", controllers.HandleReaderEditionSections)

	// Webhooks authenticate via the body signature, not a bearer token.
	v1.Post("/payments/webhook", controllers.HandlePaymentWebhook)
}

func (h ApiRouter) registerUserRoutes(v1 fiber.Router) {
	authed := middleware.RequireAuth()
	v1.Get("/auth/me", authed, controllers.HandleMe)
	v1.Get("/subscriptions/me", authed, controllers.HandleSubscriptionsMe)
	v1.Post("/payments/order", authed, controllers.HandlePaymentCreateOrder)
	v1.Post("/payments/verify", authed, controllers.HandlePaymentVerify)
}

// registerStaffRoutes wires the editorial back office in three tiers:
// staff (any editorial role), manage (brand admins) and super
// (platform owner). ADMIN and AUTHOR grants are brand-scoped;
// RequireBrandAccess checks any brand id named by the request and the
// handlers re-check per entity.
func (h ApiRouter) registerStaffRoutes(v1 fiber.Router) {
	authed := middleware.RequireAuth()
	brand := middleware.RequireBrandAccess()
	staff := middleware.RequireRole(models.ROLE_SUPER_ADMIN, models.ROLE_ADMIN, models.ROLE_AUTHOR)
	manage := middleware.RequireRole(models.ROLE_SUPER_ADMIN, models.ROLE_ADMIN)
	super := middleware.RequireRole(models.ROLE_SUPER_ADMIN)

	v1.Post("/brands", authed, super, controllers.HandleBrandCreate)
	v1.Get("/brands", authed, manage, brand, controllers.HandleBrandList)
	v1.Get("/brands/:id", authed, staff, brand, controllers.HandleBrandGet)
	v1.Patch("/brands/:id", authed, manage, brand, controllers.HandleBrandUpdate)
	v1.Delete("/brands/:id", authed, super, controllers.HandleBrandArchive)

	v1.Get("/templates", authed, manage, brand, controllers.HandleTemplateList)
	v1.Post("/templates", authed, manage, brand, controllers.HandleTemplateCreate)
	v1.Get("/templates/:id", authed, manage, brand, controllers.HandleTemplateGet)
	v1.Patch("/templates/:id", authed, manage, brand, controllers.HandleTemplateUpdate)
	v1.Patch("/templates/:id/active", authed, manage, brand, controllers.HandleTemplateSetActive)

	v1.Get("/editions", authed, staff, brand, controllers.HandleEditionList)
	v1.Post("/editions", authed, manage, brand, controllers.HandleEditionCreate)
	v1.Get("/editions/:id", authed, staff, brand, controllers.HandleEditionGet)
	v1.Patch("/editions/:id", authed, manage, brand, controllers.HandleEditionUpdate)
	v1.Post("/editions/:id/publish", authed, manage, brand, controllers.HandleEditionPublish)
	v1.Post("/editions/:id/unpublish", authed, manage, brand, controllers.HandleEditionUnpublish)
	v1.Post("/editions/:id/generate-sections", authed, manage, brand, controllers.HandleEditionGenerateSections)
	v1.Get("/editions/:id/sections", authed, staff, brand, controllers.HandleEditionSections)
	v1.Post("/editions/:id/sections", authed, manage, brand, controllers.HandleSectionCreate)

	v1.Get("/sections/:id", authed, staff, controllers.HandleSectionGet)
	v1.Patch("/sections/:id", authed, staff, controllers.HandleSectionUpdate)
	v1.Post("/sections/:id/submit", authed, staff, controllers.HandleSectionSubmit)
	v1.Post("/sections/:id/approve", authed, manage, controllers.HandleSectionApprove)
	v1.Post("/sections/:id/reject", authed, manage, controllers.HandleSectionReject)
	v1.Delete("/sections/:id", authed, manage, controllers.HandleSectionDelete)

	v1.Post("/allocations", authed, manage, brand, controllers.HandleAllocationCreate)
	v1.Get("/allocations", authed, staff, brand, controllers.HandleAllocationList)
	v1.Post("/allocations/:id/revoke", authed, manage, controllers.HandleAllocationRevoke)
}

func (h ApiRouter) registerAdminRoutes(v1 fiber.Router) {
	admin := v1.Group("/admin", middleware.RequireAuth(),
		middleware.RequireRole(models.ROLE_SUPER_ADMIN, models.ROLE_ADMIN),
		middleware.RequireBrandAccess())

	admin.Get("/overview", controllers.HandleAdminOverview)

	admin.Get("/users", controllers.HandleAdminUserList)
	admin.Post("/users", controllers.HandleAdminUserCreate)
	admin.Patch("/users/:id/roles", controllers.HandleAdminUserSetRoles)
	admin.Patch("/users/:id/status", controllers.HandleAdminUserSetStatus)

	admin.Get("/plans", controllers.HandlePlanListAdmin)
	admin.Get("/subscriptions", controllers.HandleSubscriptionListAdmin)
	admin.Post("/subscriptions", controllers.HandleSubscriptionGrant)
	admin.Patch("/subscriptions/:id", controllers.HandleSubscriptionUpdate)
	admin.Delete("/subscriptions/:id", controllers.HandleSubscriptionDelete)

	admin.Get("/payments", controllers.HandlePaymentListAdmin)
	admin.Get("/payments/:id", controllers.HandlePaymentGetAdmin)
}
