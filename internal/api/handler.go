package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"printcraft-service/internal/cart"
	"printcraft-service/internal/imageproc"
	"printcraft-service/internal/models"
	"printcraft-service/internal/pricing"
	"printcraft-service/internal/recolor"
	"printcraft-service/internal/service"
	"printcraft-service/internal/store"
	"printcraft-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recolorer colorizes a garment mockup raster. The Redis-cached recolor
// engine satisfies this.
type Recolorer interface {
	Recolor(src []byte, targetHex string) []byte
}

// Handler contains HTTP handlers
type Handler struct {
	orderService *service.OrderService
	authService  *service.AuthService
	generator    *service.GeneratorClient
	recolorer    Recolorer
	garments     store.GarmentRepository
	cartStore    *cart.Store
	httpClient   *http.Client
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orderService *service.OrderService,
	authService *service.AuthService,
	generator *service.GeneratorClient,
	recolorer Recolorer,
	garments store.GarmentRepository,
	cartStore *cart.Store,
) *Handler {
	return &Handler{
		orderService: orderService,
		authService:  authService,
		generator:    generator,
		recolorer:    recolorer,
		garments:     garments,
		cartStore:    cartStore,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/garments", h.listGarments)
		v1.GET("/garments/:id", h.getGarment)

		v1.GET("/pricing/presets", h.listPresets)
		v1.POST("/pricing/quote", h.quote)

		v1.POST("/images/generate", h.generateImage)
		v1.POST("/images/optimize", h.optimizeImage)
		v1.POST("/images/remove-background", h.removeBackground)
		v1.POST("/images/recolor", h.recolorImage)

		v1.GET("/cart/:session", h.getCart)
		v1.POST("/cart/:session/items", h.addCartItem)
		v1.PATCH("/cart/:session/items/:item", h.updateCartItem)
		v1.DELETE("/cart/:session/items/:item", h.removeCartItem)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders/:id", h.getOrder)

		v1.POST("/admin/login", h.login)
	}

	admin := v1.Group("/admin")
	admin.Use(h.authRequired())
	{
		admin.POST("/logout", h.logout)

		admin.POST("/garments", h.addGarment)
		admin.PUT("/garments/:id", h.updateGarment)
		admin.DELETE("/garments/:id", h.deleteGarment)

		admin.GET("/orders", h.listOrders)
		admin.PATCH("/orders/:id", h.updateOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listGarments returns the product catalog
func (h *Handler) listGarments(c *gin.Context) {
	garments, err := h.garments.ListGarments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list garments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"garments": garments})
}

// getGarment returns one catalog entry
func (h *Handler) getGarment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid garment ID"})
		return
	}
	garment, err := h.garments.GetGarment(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Garment not found"})
		return
	}
	c.JSON(http.StatusOK, garment)
}

// listPresets returns the fixed transfer size catalog
func (h *Handler) listPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": pricing.Presets()})
}

type quoteRequest struct {
	Preset        string  `json:"preset"`
	WidthIn       float64 `json:"width_in"`
	HeightIn      float64 `json:"height_in"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
	ScaleOverride float64 `json:"scale_override"`
}

// quote prices a transfer size and quantity
func (h *Handler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var sel pricing.SizeSelection
	if req.Preset != "" {
		if _, ok := pricing.PresetByLabel(req.Preset); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown preset size"})
			return
		}
		sel = pricing.PresetSelection(req.Preset)
	} else {
		if req.WidthIn <= 0 || req.HeightIn <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Custom size requires width_in and height_in"})
			return
		}
		sel = pricing.CustomSelection(req.WidthIn, req.HeightIn)
	}

	q := pricing.ComputeTransferPrice(sel, req.Quantity, req.ScaleOverride)
	c.JSON(http.StatusOK, gin.H{
		"size":             sel.Label(),
		"quote":            q,
		"unit_price_text":  util.FormatUSD(q.UnitPrice),
		"total_price_text": util.FormatUSD(q.Total),
	})
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// generateImage proxies the text-to-image model
func (h *Handler) generateImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		util.ImageEndpointDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	}()

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		util.ImageEndpointTotal.WithLabelValues("generate", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing prompt"})
		return
	}

	data, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, service.ErrModelWarming) {
			util.ImageEndpointTotal.WithLabelValues("generate", "warming").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Image model is warming up, please try again in 20-30 seconds",
			})
			return
		}
		util.ImageEndpointTotal.WithLabelValues("generate", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image generation failed"})
		return
	}

	util.ImageEndpointTotal.WithLabelValues("generate", "ok").Inc()
	c.Data(http.StatusOK, "image/png", data)
}

type imageURLRequest struct {
	ImageURL string `json:"imageUrl"`
}

// optimizeImage sharpens/upscales artwork, degrading to the original on any
// processing failure
func (h *Handler) optimizeImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		util.ImageEndpointDuration.WithLabelValues("optimize").Observe(time.Since(start).Seconds())
	}()

	var req imageURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		util.ImageEndpointTotal.WithLabelValues("optimize", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing imageUrl"})
		return
	}

	data, err := imageproc.FetchImage(c.Request.Context(), h.httpClient, req.ImageURL)
	if err != nil {
		util.ImageEndpointTotal.WithLabelValues("optimize", "fetch_error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch image, please retry"})
		return
	}

	out, enhanced := imageproc.Optimize(data)
	status := "original"
	if enhanced {
		status = "enhanced"
	}
	util.ImageEndpointTotal.WithLabelValues("optimize", status).Inc()
	c.Header("X-Optimization-Status", status)
	c.Data(http.StatusOK, "image/png", out)
}

// removeBackground strips near-white background to transparency
func (h *Handler) removeBackground(c *gin.Context) {
	start := time.Now()
	defer func() {
		util.ImageEndpointDuration.WithLabelValues("remove_background").Observe(time.Since(start).Seconds())
	}()

	var req imageURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		util.ImageEndpointTotal.WithLabelValues("remove_background", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing imageUrl"})
		return
	}

	data, err := imageproc.FetchImage(c.Request.Context(), h.httpClient, req.ImageURL)
	if err != nil {
		util.ImageEndpointTotal.WithLabelValues("remove_background", "fetch_error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch image, please retry"})
		return
	}

	out, removed := imageproc.RemoveWhiteBackground(data)
	status := "failed"
	if removed {
		status = "true"
	}
	util.ImageEndpointTotal.WithLabelValues("remove_background", status).Inc()
	c.Header("X-Background-Removed", status)
	c.Data(http.StatusOK, "image/png", out)
}

type recolorRequest struct {
	ImageURL string `json:"imageUrl"`
	HexColor string `json:"hexColor"`
}

// recolorImage remaps a garment mockup to a target color. Pure white
// bypasses the pixel pass: source mockups are authored on a white base.
func (h *Handler) recolorImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		util.ImageEndpointDuration.WithLabelValues("recolor").Observe(time.Since(start).Seconds())
	}()

	var req recolorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" || req.HexColor == "" {
		util.ImageEndpointTotal.WithLabelValues("recolor", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing imageUrl or hexColor"})
		return
	}

	data, err := imageproc.FetchImage(c.Request.Context(), h.httpClient, req.ImageURL)
	if err != nil {
		util.ImageEndpointTotal.WithLabelValues("recolor", "fetch_error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch image, please retry"})
		return
	}

	if recolor.IsWhiteBypass("", req.HexColor) {
		util.ImageEndpointTotal.WithLabelValues("recolor", "bypass").Inc()
		c.Data(http.StatusOK, "image/png", data)
		return
	}

	out := h.recolorer.Recolor(data, req.HexColor)
	util.ImageEndpointTotal.WithLabelValues("recolor", "ok").Inc()
	c.Data(http.StatusOK, "image/png", out)
}

// getCart returns the items, total and count of a session cart
func (h *Handler) getCart(c *gin.Context) {
	sessionID := c.Param("session")
	items, err := h.cartStore.Items(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}
	total, err := h.cartStore.Total(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to total cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"count":      len(items),
		"total":      total,
		"total_text": util.FormatUSD(total),
	})
}

// addCartItem puts a resolved product configuration into the cart
func (h *Handler) addCartItem(c *gin.Context) {
	var cfg models.ProductConfiguration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid configuration",
			"details": err.Error(),
		})
		return
	}
	if cfg.ID == "" || cfg.GarmentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Configuration is missing id or garment"})
		return
	}

	if err := h.cartStore.AddItem(c.Request.Context(), c.Param("session"), &cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add cart item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item_id": cfg.ID})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// updateCartItem changes a cart line's garment quantity
func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}
	if err := h.cartStore.UpdateQuantity(c.Request.Context(), c.Param("session"), c.Param("item"), req.Quantity); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// removeCartItem deletes a cart line
func (h *Handler) removeCartItem(c *gin.Context) {
	if err := h.cartStore.RemoveItem(c.Request.Context(), c.Param("session"), c.Param("item")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// createOrder handles checkout
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create order",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, items, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login issues an admin session token
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing credentials"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// logout invalidates the admin session
func (h *Handler) logout(c *gin.Context) {
	token := c.GetHeader("X-Admin-Token")
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// addGarment inserts a catalog entry
func (h *Handler) addGarment(c *gin.Context) {
	var g models.Garment
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid garment", "details": err.Error()})
		return
	}
	if err := h.garments.AddGarment(c.Request.Context(), &g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add garment"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

// updateGarment replaces a catalog entry
func (h *Handler) updateGarment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid garment ID"})
		return
	}

	var g models.Garment
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid garment", "details": err.Error()})
		return
	}
	g.ID = id

	if err := h.garments.UpdateGarment(c.Request.Context(), &g); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Garment not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// deleteGarment removes a catalog entry
func (h *Handler) deleteGarment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid garment ID"})
		return
	}
	if err := h.garments.DeleteGarment(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Garment not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// listOrders lists orders filtered by status or payment status
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(),
		c.Query("status"), c.Query("payment_status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type updateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
}

// updateOrder applies a partial admin update to an order
func (h *Handler) updateOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	upd := store.OrderUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}
	if err := h.orderService.UpdateOrder(c.Request.Context(), orderID, upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// authRequired gates admin routes on a valid session token
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Admin-Token")
		ok, err := h.authService.Validate(c.Request.Context(), token)
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin session required"})
			return
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
