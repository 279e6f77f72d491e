package router

import (
	"net/http"

	"github.com/crisdel29/siscontevolucion/internal/config"
	"github.com/crisdel29/siscontevolucion/internal/handler"
	"github.com/crisdel29/siscontevolucion/internal/importer"
	"github.com/crisdel29/siscontevolucion/internal/middleware"
	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
)

// SetupRouter builds the gin engine with every API route.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(middleware.Logger(), middleware.Recovery(), middleware.CORS(cfg.CORS.AllowedOrigins))
	if cfg.Import.MaxUploadMB > 0 {
		r.MaxMultipartMemory = cfg.Import.MaxUploadMB << 20
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg)
	api.POST("/login", authHandler.Login)
	api.POST("/admin/setup", authHandler.Setup)

	protected := api.Group("")
	protected.Use(
		middleware.Auth(cfg.JWT.Secret, db),
		middleware.Audit(db, cfg.Security.EncryptionKey),
	)

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/user", authHandler.CurrentUser)

	admin := protected.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", authHandler.ListUsers)
	admin.POST("/users", authHandler.CreateUser)
	auditHandler := handler.NewAuditHandler(db, cfg.Security.EncryptionKey)
	admin.GET("/admin/auditoria", auditHandler.List)

	companyHandler := handler.NewCompanyHandler(db)
	protected.GET("/empresa", companyHandler.Get)
	protected.POST("/empresa", companyHandler.Save)
	protected.PUT("/empresa", companyHandler.Save)

	assetHandler := handler.NewAssetHandler(db)
	protected.GET("/activos", assetHandler.List)
	protected.GET("/activos/:id", assetHandler.Get)
	protected.POST("/activos", assetHandler.Create)
	protected.PUT("/activos/:id", assetHandler.Update)

	ledger := handler.NewLedgerHandler(db)
	protected.GET("/movimientos", ledger.ListMovements)
	protected.GET("/movimientos/:id", ledger.GetMovement)
	protected.POST("/movimientos", ledger.CreateMovement)
	protected.PUT("/movimientos/:id", ledger.UpdateMovement)
	protected.DELETE("/movimientos/:id", ledger.DeleteMovement)

	protected.GET("/valoracion", ledger.ListValuations)
	protected.GET("/valoracion/:id", ledger.GetValuation)
	protected.POST("/valoracion", ledger.CreateValuation)
	protected.PUT("/valoracion/:id", ledger.UpdateValuation)

	protected.GET("/depreciacion", ledger.ListDepreciations)
	protected.GET("/depreciacion/:id", ledger.GetDepreciation)
	protected.POST("/depreciacion", ledger.CreateDepreciation)
	protected.PUT("/depreciacion/:id", ledger.UpdateDepreciation)

	imp := importer.New(db, importer.Options{
		Dir:      cfg.Import.Dir,
		Atomic:   cfg.Import.Atomic,
		MaxBytes: cfg.Import.MaxUploadMB << 20,
	})
	importHandler := handler.NewImportHandler(imp)
	protected.POST("/importacion/upload", importHandler.Upload)
	protected.POST("/importacion/distribuir", importHandler.Distribute)
	protected.GET("/importacion", importHandler.List)
	protected.DELETE("/importacion/:id", importHandler.Delete)

	reportHandler := handler.NewReportHandler(report.NewEngine(db, cfg.Report.DateLayout))
	protected.GET("/reportes", reportHandler.Show)
	protected.GET("/reportes/periodos", reportHandler.Periods)
	protected.GET("/reportes/exportar", reportHandler.Export)

	return r
}
