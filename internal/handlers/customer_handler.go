package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teadealer/teadealer-api/internal/repository"
	"github.com/teadealer/teadealer-api/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

type customerRequest struct {
	BookNumber        string  `json:"book_number" binding:"required"`
	GrowerNameEnglish string  `json:"grower_name_english"`
	GrowerNameSinhala string  `json:"grower_name_sinhala"`
	Address           *string `json:"address"`
	NIC               *string `json:"nic"`
	LandName          *string `json:"land_name"`
	ContactNumber     *string `json:"contact_number"`
	Route             *string `json:"route"`
	TransportExempt   bool    `json:"transport_exempt"`
}

func (r customerRequest) toInput() services.CustomerInput {
	return services.CustomerInput{
		BookNumber:        r.BookNumber,
		GrowerNameEnglish: r.GrowerNameEnglish,
		GrowerNameSinhala: r.GrowerNameSinhala,
		Address:           r.Address,
		NIC:               r.NIC,
		LandName:          r.LandName,
		ContactNumber:     r.ContactNumber,
		Route:             r.Route,
		TransportExempt:   r.TransportExempt,
	}
}

// @Summary List growers
// @Description Get a paginated list of registered growers
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search book number or name"
// @Param route query string false "Filter by route"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := &repository.CustomerQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Route = c.Query("route")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get grower
// @Description Get one grower by id
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// @Summary Register grower
// @Description Register a new grower with a unique book number
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer body customerRequest true "Grower"
// @Success 201 {object} models.Customer
// @Failure 409 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// @Summary Update grower
// @Description Edit a grower's registration
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param customer body customerRequest true "Grower"
// @Success 200 {object} models.Customer
// @Security BearerAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), uint(id), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// @Summary Delete grower
// @Description Remove a grower registration
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// @Summary List routes
// @Description Get the distinct collection routes in use
// @Tags Customers
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/routes [get]
func (h *CustomerHandler) Routes(c *gin.Context) {
	routes, err := h.customerService.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}
