package routes

import (
	"github.com/eufratt/EduLedger/controllers"
	"github.com/eufratt/EduLedger/middlewares"
	"github.com/eufratt/EduLedger/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {

	api := r.Group("/api")
	{
		api.POST("/auth/login", controllers.Login)

		auth := api.Group("/", middlewares.AuthMiddleware())

		// ================= CIVITAS =================
		civitas := auth.Group("/", middlewares.RequireRole(models.RoleCivitas))
		{
			civitas.GET("/civitas/dashboard", controllers.CivitasDashboard)

			requests := civitas.Group("/requests")
			{
				requests.POST("", controllers.CreateRequest)
				requests.GET("", controllers.ListMyRequests)
				requests.GET("/eligible-for-proof", controllers.EligibleForProof)
				requests.GET("/:id", controllers.MyRequestDetail)
				requests.PUT("/:id", controllers.UpdateRequest)
				requests.DELETE("/:id", controllers.DeleteRequest)
				requests.PATCH("/:id/submit", controllers.SubmitRequest)
				requests.POST("/:id/proofs", controllers.UploadProof)
				requests.GET("/:id/proofs", controllers.ListProofs)
			}
		}

		// ================= BENDAHARA =================
		bendahara := auth.Group("/", middlewares.RequireRole(models.RoleBendahara))
		{
			bendahara.GET("/bendahara/dashboard", controllers.BendaharaDashboard)

			disb := bendahara.Group("/disbursements")
			{
				disb.GET("", controllers.ListDisbursements)
				disb.GET("/:id", controllers.DisbursementDetail)
				disb.PATCH("/:id", controllers.Disburse)
				disb.PATCH("/:id/validate", controllers.ValidateDisbursement)
			}

			bendahara.GET("/funding-sources", controllers.ListFundingSources)
			bendahara.POST("/funding-sources", controllers.CreateFundingSource)

			bendahara.GET("/ledger-entries", controllers.ListLedgerEntries)
			bendahara.POST("/ledger-entries", controllers.CreateLedgerEntry)
			bendahara.GET("/transactions", controllers.ListTransactions)

			rkab := bendahara.Group("/rkab")
			{
				rkab.POST("", controllers.CreateRkab)
				rkab.GET("/candidates", controllers.RkabCandidates)
				rkab.POST("/:id/items", controllers.AddRkabItems)
				rkab.PATCH("/:id/submit", controllers.SubmitRkab)
			}
		}

		// Detail RKAS bisa dilihat bendahara maupun kepsek.
		auth.GET("/rkab/:id",
			middlewares.RequireRole(models.RoleBendahara, models.RoleKepsek),
			controllers.RkabDetail)

		// ================= KEPSEK =================
		kepsek := auth.Group("/kepsek", middlewares.RequireRole(models.RoleKepsek))
		{
			kepsek.GET("/dashboard", controllers.KepsekDashboard)
			kepsek.GET("/approvals", controllers.PendingApprovals)
			kepsek.GET("/requests/:id", controllers.ApprovalRequestDetail)
			kepsek.PATCH("/requests/:id/decision", controllers.DecideRequest)
			kepsek.GET("/rkabs", controllers.ListRkabsForKepsek)
			kepsek.PATCH("/rkabs/:id/decision", controllers.DecideRkab)
			kepsek.GET("/reports", controllers.ListReports)
			kepsek.GET("/reports/:id", controllers.ReportDetail)
			kepsek.POST("/reports/generate", controllers.GenerateReport)
		}
	}
}
