package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/repository"
	"github.com/teadealer/teadealer-api/internal/services"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

type collectionRequest struct {
	BookNumber     string          `json:"book_number" binding:"required"`
	CollectionDate string          `json:"collection_date" binding:"required"`
	Grade          string          `json:"grade" binding:"required"`
	WeightKg       decimal.Decimal `json:"weight_kg" binding:"required"`
	Notes          *string         `json:"notes"`
}

func (r collectionRequest) toInput() (services.CollectionInput, error) {
	date, err := time.Parse("2006-01-02", r.CollectionDate)
	if err != nil {
		return services.CollectionInput{}, err
	}
	return services.CollectionInput{
		BookNumber:     r.BookNumber,
		CollectionDate: date,
		Grade:          r.Grade,
		WeightKg:       r.WeightKg,
		Notes:          r.Notes,
	}, nil
}

// @Summary List weighings
// @Description Get a paginated list of daily weighings
// @Tags Collections
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param book_number query string false "Filter by book number"
// @Param grade query string false "Filter by grade"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /collections [get]
func (h *CollectionHandler) Index(c *gin.Context) {
	query := &repository.CollectionQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.BookNumber = c.Query("book_number")
	query.Grade = c.Query("grade")

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query.To = &t
		}
	}

	collections, total, err := h.collectionService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get weighing
// @Description Get one weighing record
// @Tags Collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} models.Collection
// @Security BearerAuth
// @Router /collections/{id} [get]
func (h *CollectionHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	collection, err := h.collectionService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// @Summary Record weighing
// @Description Record one day's leaf weighing for a grower and grade
// @Tags Collections
// @Accept json
// @Produce json
// @Param collection body collectionRequest true "Weighing"
// @Success 201 {object} models.Collection
// @Failure 409 {object} map[string]interface{}
// @Security BearerAuth
// @Router /collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection_date, expected YYYY-MM-DD"})
		return
	}

	collection, err := h.collectionService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

// @Summary Update weighing
// @Description Edit a weighing record
// @Tags Collections
// @Accept json
// @Produce json
// @Param id path int true "Collection ID"
// @Param collection body collectionRequest true "Weighing"
// @Success 200 {object} models.Collection
// @Security BearerAuth
// @Router /collections/{id} [put]
func (h *CollectionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection_date, expected YYYY-MM-DD"})
		return
	}

	collection, err := h.collectionService.Update(c.Request.Context(), uint(id), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// @Summary Delete weighing
// @Description Remove a weighing record
// @Tags Collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /collections/{id} [delete]
func (h *CollectionHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.collectionService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
