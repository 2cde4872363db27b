package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	listingapp "github.com/dromsync/backend/internal/application/listing"
	"github.com/dromsync/backend/internal/domain/listing"
)

// ListingService is the application surface the HTTP layer drives
type ListingService interface {
	Save(ctx context.Context, cmd listingapp.SaveCommand) (*listing.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateDescription(ctx context.Context, cmd listingapp.UpdateDescriptionCommand) (int, error)
	CopyProfile(ctx context.Context, sourceID, targetID uuid.UUID) (int, error)
}

// ListingHandler handles listing administration endpoints
type ListingHandler struct {
	BaseHandler
	service ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(service ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// RegisterRoutes registers listing routes on the API group
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	listings := rg.Group("/listings")
	{
		listings.POST("/:productID", h.Save)
		listings.POST("/:productID/:offerConst", h.Save)
		listings.POST("/:productID/:offerConst/:variationConst", h.Save)
		listings.POST("/:productID/:offerConst/:variationConst/:modificationConst", h.Save)
		listings.DELETE("/:productID", h.Delete)
	}

	profiles := rg.Group("/profiles")
	{
		profiles.PUT("/:profileID/descriptions", h.UpdateDescriptions)
		profiles.POST("/:profileID/copy", h.Copy)
	}
}

// ImageUploadRequest is one picture attached to a save request.
// Data travels base64-encoded in JSON.
type ImageUploadRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Ext       string `json:"ext" binding:"required,max=16"`
	Data      []byte `json:"data" binding:"required"`
	Root      bool   `json:"root"`
	SortOrder int    `json:"sort_order"`
}

// SaveListingRequest creates or updates the listing addressed by the path
type SaveListingRequest struct {
	ProfileID   uuid.UUID            `json:"profile_id" binding:"required"`
	Description *string              `json:"description"`
	Images      []ImageUploadRequest `json:"images" binding:"dive"`
}

// UpdateDescriptionsRequest rewrites every listing description of a profile
type UpdateDescriptionsRequest struct {
	Description string `json:"description" binding:"required"`
}

// CopyProfileRequest clones all listings of the path profile onto another
type CopyProfileRequest struct {
	TargetProfileID uuid.UUID `json:"target_profile_id" binding:"required"`
}

// ImageResponse represents a listing image in API responses
type ImageResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Ext       string `json:"ext"`
	Root      bool   `json:"root"`
	CDN       bool   `json:"cdn"`
	SortOrder int    `json:"sort_order"`
}

// ListingResponse represents a listing in API responses
type ListingResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	OfferConst        *string         `json:"offer_const,omitempty"`
	VariationConst    *string         `json:"variation_const,omitempty"`
	ModificationConst *string         `json:"modification_const,omitempty"`
	ProfileID         string          `json:"profile_id"`
	Kit               int             `json:"kit"`
	Description       *string         `json:"description,omitempty"`
	Images            []ImageResponse `json:"images"`
}

// Save creates or updates the listing for the product variant in the path.
// Selector consts come as path segments, the kit as a query parameter.
func (h *ListingHandler) Save(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	offer, err := optionalUUIDParam(c, "offerConst")
	if err != nil {
		h.BadRequest(c, "invalid offer const")
		return
	}
	variation, err := optionalUUIDParam(c, "variationConst")
	if err != nil {
		h.BadRequest(c, "invalid variation const")
		return
	}
	modification, err := optionalUUIDParam(c, "modificationConst")
	if err != nil {
		h.BadRequest(c, "invalid modification const")
		return
	}

	kit := 0
	if raw := c.Query("kit"); raw != "" {
		kit, err = strconv.Atoi(raw)
		if err != nil || kit < 1 {
			h.BadRequest(c, "invalid kit number")
			return
		}
	}

	var req SaveListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := listingapp.SaveCommand{
		ProductID:         productID,
		OfferConst:        offer,
		VariationConst:    variation,
		ModificationConst: modification,
		ProfileID:         req.ProfileID,
		Kit:               kit,
		Description:       req.Description,
	}
	for _, img := range req.Images {
		cmd.Images = append(cmd.Images, listingapp.ImageUpload{
			Name:      img.Name,
			Ext:       img.Ext,
			Data:      img.Data,
			Root:      img.Root,
			SortOrder: img.SortOrder,
		})
	}

	saved, err := h.service.Save(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toListingResponse(saved))
}

// Delete removes a listing by id
func (h *ListingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		h.BadRequest(c, "invalid listing id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateDescriptions rewrites the description of all listings of a profile
func (h *ListingHandler) UpdateDescriptions(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("profileID"))
	if err != nil {
		h.BadRequest(c, "invalid profile id")
		return
	}

	var req UpdateDescriptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateDescription(c.Request.Context(), listingapp.UpdateDescriptionCommand{
		ProfileID:   profileID,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": updated})
}

// Copy clones all listings of the path profile onto the target profile
func (h *ListingHandler) Copy(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("profileID"))
	if err != nil {
		h.BadRequest(c, "invalid profile id")
		return
	}

	var req CopyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	copied, err := h.service.CopyProfile(c.Request.Context(), sourceID, req.TargetProfileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"copied": copied})
}

func optionalUUIDParam(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Param(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toListingResponse(l *listing.Listing) ListingResponse {
	resp := ListingResponse{
		ID:          l.ID.String(),
		ProductID:   l.ProductID.String(),
		ProfileID:   l.ProfileID.String(),
		Kit:         l.Kit,
		Description: l.Description,
		Images:      make([]ImageResponse, 0, len(l.Images)),
	}
	if l.OfferConst != nil {
		s := l.OfferConst.String()
		resp.OfferConst = &s
	}
	if l.VariationConst != nil {
		s := l.VariationConst.String()
		resp.VariationConst = &s
	}
	if l.ModificationConst != nil {
		s := l.ModificationConst.String()
		resp.ModificationConst = &s
	}
	for _, img := range l.Images {
		resp.Images = append(resp.Images, ImageResponse{
			ID:        img.ID.String(),
			Name:      img.Name,
			Ext:       img.Ext,
			Root:      img.Root,
			CDN:       img.CDN,
			SortOrder: img.SortOrder,
		})
	}
	return resp
}
