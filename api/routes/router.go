package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agriferti/agriferti-backend/api/controllers"
	"github.com/agriferti/agriferti-backend/api/middleware"
	authsvc "github.com/agriferti/agriferti-backend/internal/auth"
	customersvc "github.com/agriferti/agriferti-backend/internal/customers"
	"github.com/agriferti/agriferti-backend/internal/health"
	productsvc "github.com/agriferti/agriferti-backend/internal/products"
	reportsvc "github.com/agriferti/agriferti-backend/internal/reports"
	salesvc "github.com/agriferti/agriferti-backend/internal/sales"
	"github.com/agriferti/agriferti-backend/pkg/auth/session"
	"github.com/agriferti/agriferti-backend/pkg/config"
	"github.com/agriferti/agriferti-backend/pkg/logger"
	"github.com/agriferti/agriferti-backend/pkg/redis"
)

// Services groups everything the router mounts. Keeping it a struct keeps
// NewRouter's signature stable as endpoints grow.
type Services struct {
	Auth      authsvc.Service
	Products  productsvc.Service
	Customers customersvc.Service
	Sales     salesvc.Service
	Reports   reportsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	monitor *health.Monitor,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginAccountLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupAccountLimit,
	)
	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPRequestWindow,
		cfg.AuthRateLimit.OTPRequestIPLimit,
		cfg.AuthRateLimit.OTPRequestPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, monitor))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/check-user", controllers.AuthCheckUser(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/otp/request", controllers.AuthRequestOTP(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/otp/verify", controllers.AuthVerifyOTP(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))
			r.Patch("/{id}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/v1/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(svcs.Customers, logg))
		})

		r.Route("/v1/sales", func(r chi.Router) {
			r.Post("/", controllers.RecordSale(svcs.Sales, logg))
			r.Get("/", controllers.ListSales(svcs.Sales, logg))
		})

		r.Route("/v1/reports", func(r chi.Router) {
			r.Get("/sales", controllers.SalesReport(svcs.Reports, logg))
			r.Get("/sales/export", controllers.ExportSalesCSV(svcs.Reports, logg))
			r.Get("/dashboard", controllers.Dashboard(svcs.Reports, logg))
		})
	})

	return r
}
