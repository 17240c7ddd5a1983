package router

import (
	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/interfaces/http/handler"
	"github.com/erp/suite/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler mounted under the versioned API
type Handlers struct {
	Auth          *handler.AuthHandler
	Tenant        *handler.TenantHandler
	User          *handler.UserHandler
	Permission    *handler.PermissionHandler
	Customer      *handler.CustomerHandler
	Invoice       *handler.InvoiceHandler
	BOQ           *handler.BOQHandler
	Employee      *handler.EmployeeHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Points        *handler.PointsHandler
}

// RegisterAPI mounts the domain route groups. Each group is gated on the
// caller's role holding at least one action on the resource; the services
// check the specific action and record scope.
func RegisterAPI(r *Router, h Handlers, authorizer *appidentity.Authorizer, log *zap.Logger) {
	gate := func(resource string) *DomainGroup {
		return NewDomainGroup(resource, "").Use(middleware.RequireResource(authorizer, resource, log))
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.POST("/refresh", h.Auth.Refresh)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.Me)

	tenantRoutes := gate(identity.ResourceTenant)
	tenantRoutes.GET("/tenant", h.Tenant.Get)
	tenantRoutes.PUT("/tenant", h.Tenant.Update)

	userRoutes := gate(identity.ResourceUser)
	userRoutes.GET("/users", h.User.List)
	userRoutes.POST("/users", h.User.Create)
	userRoutes.GET("/users/:id", h.User.Get)
	userRoutes.PUT("/users/:id/role", h.User.ChangeRole)
	userRoutes.POST("/users/:id/deactivate", h.User.Deactivate)
	userRoutes.POST("/users/:id/activate", h.User.Activate)
	userRoutes.POST("/users/:id/unlock", h.User.Unlock)

	permissionRoutes := gate(identity.ResourcePermission)
	permissionRoutes.GET("/permissions/matrix", h.Permission.Matrix)
	permissionRoutes.PUT("/permissions/overrides", h.Permission.SetOverride)
	permissionRoutes.DELETE("/permissions/overrides", h.Permission.DeleteOverride)

	customerRoutes := gate(identity.ResourceCustomer)
	customerRoutes.GET("/customers", h.Customer.List)
	customerRoutes.POST("/customers", h.Customer.Create)
	customerRoutes.GET("/customers/:id", h.Customer.Get)
	customerRoutes.PUT("/customers/:id", h.Customer.Update)
	customerRoutes.DELETE("/customers/:id", h.Customer.Delete)
	customerRoutes.POST("/customers/:id/activate", h.Customer.Activate)
	customerRoutes.POST("/customers/:id/deactivate", h.Customer.Deactivate)

	invoiceRoutes := gate(identity.ResourceInvoice)
	invoiceRoutes.GET("/invoices", h.Invoice.List)
	invoiceRoutes.POST("/invoices", h.Invoice.Create)
	invoiceRoutes.GET("/invoices/:id", h.Invoice.Get)
	invoiceRoutes.PUT("/invoices/:id", h.Invoice.Update)
	invoiceRoutes.DELETE("/invoices/:id", h.Invoice.Delete)
	invoiceRoutes.POST("/invoices/:id/send", h.Invoice.Send)
	invoiceRoutes.POST("/invoices/:id/pay", h.Invoice.Pay)
	invoiceRoutes.POST("/invoices/:id/document", h.Invoice.Document)

	boqRoutes := gate(identity.ResourceBOQItem)
	boqRoutes.GET("/boq-items", h.BOQ.List)
	boqRoutes.POST("/boq-items", h.BOQ.Create)
	boqRoutes.GET("/boq-items/:id", h.BOQ.Get)
	boqRoutes.PUT("/boq-items/:id", h.BOQ.Update)
	boqRoutes.DELETE("/boq-items/:id", h.BOQ.Delete)
	boqRoutes.POST("/boq-items/:id/progress", h.BOQ.Progress)

	employeeRoutes := gate(identity.ResourceEmployee)
	employeeRoutes.GET("/employees", h.Employee.List)
	employeeRoutes.POST("/employees", h.Employee.Create)
	employeeRoutes.GET("/employees/:id", h.Employee.Get)
	employeeRoutes.PUT("/employees/:id", h.Employee.Update)
	employeeRoutes.DELETE("/employees/:id", h.Employee.Delete)
	employeeRoutes.POST("/employees/:id/terminate", h.Employee.Terminate)

	orderRoutes := gate(identity.ResourcePurchaseOrder)
	orderRoutes.GET("/purchase-orders", h.PurchaseOrder.List)
	orderRoutes.POST("/purchase-orders", h.PurchaseOrder.Create)
	orderRoutes.GET("/purchase-orders/:id", h.PurchaseOrder.Get)
	orderRoutes.DELETE("/purchase-orders/:id", h.PurchaseOrder.Delete)
	orderRoutes.POST("/purchase-orders/:id/approve", h.PurchaseOrder.Approve)
	orderRoutes.POST("/purchase-orders/:id/receive", h.PurchaseOrder.Receive)
	orderRoutes.POST("/purchase-orders/:id/cancel", h.PurchaseOrder.Cancel)

	pointsRoutes := gate(identity.ResourcePoints)
	pointsRoutes.GET("/points/leaderboard", h.Points.Leaderboard)
	pointsRoutes.GET("/points/me", h.Points.Me)

	r.Register(authRoutes).
		Register(tenantRoutes).
		Register(userRoutes).
		Register(permissionRoutes).
		Register(customerRoutes).
		Register(invoiceRoutes).
		Register(boqRoutes).
		Register(employeeRoutes).
		Register(orderRoutes).
		Register(pointsRoutes)
}
