package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"dealdesk/server/internal/analyst"
	"dealdesk/server/internal/database"
	"dealdesk/server/internal/models"
	"dealdesk/server/internal/processor"
	"dealdesk/server/internal/search"
	"dealdesk/server/internal/underwriting"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	errNoProperty       = errors.New("either property or property_id is required")
	errPropertyNotFound = errors.New("property not found")
)

type Handler struct {
	db          *database.Database
	logger      *logrus.Logger
	assumptions underwriting.MarketAssumptions
	analyst     *analyst.Analyst
	processor   *processor.BatchProcessor
	now         func() time.Time
}

// PropertyQuery maps the catalog search query string.
type PropertyQuery struct {
	Q            string   `form:"q"`
	Location     string   `form:"location"`
	PropertyType string   `form:"type"`
	MinPrice     *int     `form:"min_price"`
	MaxPrice     *int     `form:"max_price"`
	MinCapRate   *float64 `form:"min_cap_rate"`
	MaxCapRate   *float64 `form:"max_cap_rate"`
	MinUnits     *int     `form:"min_units"`
	MaxUnits     *int     `form:"max_units"`
	Lat          *float64 `form:"lat"`
	Lng          *float64 `form:"lng"`
	RadiusKm     *float64 `form:"radius_km"`
}

// UnderwritingRequest names a listing inline or by catalog id.
type UnderwritingRequest struct {
	Property   *models.PropertyListing `json:"property"`
	PropertyID *int64                  `json:"property_id"`
	Mode       string                  `json:"mode"`
}

type BatchRequest struct {
	Properties []models.PropertyListing `json:"properties" binding:"required"`
	Mode       string                   `json:"mode"`
}

type LOIRequest struct {
	Property   *models.PropertyListing `json:"property"`
	PropertyID *int64                  `json:"property_id"`
	Terms      models.LOITerms         `json:"terms"`
}

func NewHandler(db *database.Database, assumptions underwriting.MarketAssumptions, an *analyst.Analyst, proc *processor.BatchProcessor, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if an == nil {
		an = analyst.New(nil, 0, logger)
	}
	if proc == nil {
		proc = processor.NewBatchProcessor(nil, assumptions, logger)
	}
	return &Handler{
		db:          db,
		logger:      logger,
		assumptions: assumptions,
		analyst:     an,
		processor:   proc,
		now:         time.Now,
	}
}

func (h *Handler) GetProperties(c *gin.Context) {
	var query PropertyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filters := models.ListingFilters{
		Location:     query.Location,
		PropertyType: query.PropertyType,
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
		MinCapRate:   query.MinCapRate,
		MaxCapRate:   query.MaxCapRate,
		MinUnits:     query.MinUnits,
		MaxUnits:     query.MaxUnits,
	}
	if query.Lat != nil || query.Lng != nil || query.RadiusKm != nil {
		if query.Lat == nil || query.Lng == nil || query.RadiusKm == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat, lng and radius_km must be given together"})
			return
		}
		filters.Near = &models.GeoFilter{Lat: *query.Lat, Lng: *query.Lng, RadiusKm: *query.RadiusKm}
	}
	if query.Q != "" {
		filters = filters.Merge(search.ParseQuery(query.Q))
	}

	listings, err := h.db.SearchListings(filters)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": listings,
		"count":      len(listings),
		"filters":    filters,
	})
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return
	}

	listing, err := h.db.GetListingByID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errPropertyNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property": listing,
		"listing":  listing.ToPropertyListing(),
	})
}

func (h *Handler) Underwrite(c *gin.Context) {
	var req UnderwritingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, ok := h.resolveListing(c, req.Property, req.PropertyID)
	if !ok {
		return
	}
	assumptions, err := h.assumptionsFor(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, ok := h.computeModel(c, listing, assumptions)
	if !ok {
		return
	}

	analysis, err := h.analyst.Analyze(c.Request.Context(), listing, model)
	if err != nil {
		h.logger.WithError(err).Error("Failed to analyze listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze property"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"address":        listing.Address,
		"mode":           model.Mode,
		"recommendation": analysis.Recommendation,
	}).Info("Underwrote listing")

	c.JSON(http.StatusOK, gin.H{
		"id":       uuid.NewString(),
		"property": listing,
		"model":    model,
		"analysis": analysis,
	})
}

func (h *Handler) UnderwriteBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	assumptions, err := h.assumptionsFor(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.processor.WithAssumptions(assumptions).Process(c.Request.Context(), req.Properties)
	if errors.Is(err, processor.ErrBatchTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to process batch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process batch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      uuid.NewString(),
		"results": results,
	})
}

func (h *Handler) BuildWorkbook(c *gin.Context) {
	var req UnderwritingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, ok := h.resolveListing(c, req.Property, req.PropertyID)
	if !ok {
		return
	}
	assumptions, err := h.assumptionsFor(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model, ok := h.computeModel(c, listing, assumptions)
	if !ok {
		return
	}

	workbook, err := underwriting.BuildWorkbook(listing, model, assumptions)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       uuid.NewString(),
		"model":    model,
		"workbook": workbook,
	})
}

// OfferingMemorandum builds the marketing package for a listing. Narrative
// sections come from the analyst and fall back to rule-based text per section.
func (h *Handler) OfferingMemorandum(c *gin.Context) {
	var req UnderwritingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, ok := h.resolveListing(c, req.Property, req.PropertyID)
	if !ok {
		return
	}
	assumptions, err := h.assumptionsFor(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model, ok := h.computeModel(c, listing, assumptions)
	if !ok {
		return
	}

	om, err := underwriting.BuildOfferingMemorandum(listing, model)
	if err == nil {
		err = h.analyst.WriteOffering(c.Request.Context(), listing, model, om)
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to build offering memorandum")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build offering memorandum"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"address": listing.Address,
		"source":  om.NarrativeSource,
	}).Info("Offering memorandum generated")

	c.JSON(http.StatusOK, gin.H{
		"id":         uuid.NewString(),
		"memorandum": om,
	})
}

func (h *Handler) DraftLOI(c *gin.Context) {
	var req LOIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, ok := h.resolveListing(c, req.Property, req.PropertyID)
	if !ok {
		return
	}

	loi, err := analyst.DraftLOI(listing, req.Terms, h.now())
	if errors.Is(err, underwriting.ErrParse) || errors.Is(err, analyst.ErrInvalidTerms) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to draft letter of intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to draft letter of intent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":  uuid.NewString(),
		"loi": loi,
	})
}

func (h *Handler) GetAssumptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.assumptions)
}

// resolveListing writes the error response itself and reports false when no
// listing could be resolved.
func (h *Handler) resolveListing(c *gin.Context, inline *models.PropertyListing, id *int64) (models.PropertyListing, bool) {
	if inline != nil {
		return *inline, true
	}
	if id == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoProperty.Error()})
		return models.PropertyListing{}, false
	}

	listing, err := h.db.GetListingByID(*id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return models.PropertyListing{}, false
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errPropertyNotFound.Error()})
		return models.PropertyListing{}, false
	}
	return listing.ToPropertyListing(), true
}

func (h *Handler) computeModel(c *gin.Context, listing models.PropertyListing, assumptions underwriting.MarketAssumptions) (*models.FinancialModel, bool) {
	model, err := underwriting.ComputeModel(listing, assumptions)
	if errors.Is(err, underwriting.ErrParse) || errors.Is(err, underwriting.ErrInvalidAssumptions) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute financial model")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute financial model"})
		return nil, false
	}
	return model, true
}

// assumptionsFor returns the server assumptions with the mode swapped when a
// request asks for one.
func (h *Handler) assumptionsFor(mode string) (underwriting.MarketAssumptions, error) {
	if mode == "" {
		return h.assumptions, nil
	}
	a := h.assumptions
	a.Mode = underwriting.Mode(mode)
	if err := a.Validate(); err != nil {
		return a, err
	}
	return a, nil
}
