package api

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parking-nav-backend/internal/geo"
	"parking-nav-backend/internal/rules"
)

type locationPayload struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

type parkingQueryRequest struct {
	Location     locationPayload `json:"location" binding:"required"`
	RadiusMeters int             `json:"radius_meters" binding:"omitempty,gte=50,lte=2000"`
	QueryTime    *time.Time      `json:"query_time"`
}

// signStatusResponse is one sign with its verdict for the queried instant.
type signStatusResponse struct {
	ID            int64                    `json:"id"`
	Street        string                   `json:"street_name"`
	FromStreet    string                   `json:"from_street,omitempty"`
	ToStreet      string                   `json:"to_street,omitempty"`
	Side          string                   `json:"side"`
	Description   string                   `json:"description"`
	Latitude      float64                  `json:"latitude"`
	Longitude     float64                  `json:"longitude"`
	Distance      float64                  `json:"distance"`
	Rule          rules.Rule               `json:"rule"`
	Availability  rules.AvailabilityResult `json:"availability"`
	CurrentStatus string                   `json:"current_status"`
	StatusColor   string                   `json:"status_color"`
	NextChange    *time.Time               `json:"next_change"`
}

// QueryParking handles the POST /api/parking/query request: signs near a
// point, each parsed and evaluated at the query time.
func (h *Handler) QueryParking(c *gin.Context) {
	var req parkingQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.queryParkingWith(c, req)
}

func (h *Handler) queryParkingWith(c *gin.Context, req parkingQueryRequest) {
	if req.RadiusMeters == 0 {
		req.RadiusMeters = 300
	}

	// The query time defaults to "now" here at the boundary, never inside
	// the rules core.
	queryTime := time.Now()
	if req.QueryTime != nil {
		queryTime = *req.QueryTime
	}

	bounds := geo.BoundsAround(req.Location.Latitude, req.Location.Longitude, float64(req.RadiusMeters))
	signs, err := h.store.SignsWithin(c.Request.Context(), bounds)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve signs"})
		return
	}

	response := make([]signStatusResponse, 0, len(signs))
	for _, sign := range signs {
		distance := geo.Distance(req.Location.Latitude, req.Location.Longitude, sign.Latitude, sign.Longitude)
		if distance > float64(req.RadiusMeters) {
			continue
		}

		rule := rules.Parse(sign.Description)
		availability := rules.Evaluate([]rules.Rule{rule}, queryTime)
		status, color := statusFor(rule, availability)

		var nextChange *time.Time
		if next, known := rules.NextChange([]rules.Rule{rule}, queryTime); known {
			nextChange = &next
		}

		response = append(response, signStatusResponse{
			ID:            sign.ID,
			Street:        sign.Street,
			FromStreet:    sign.FromStreet,
			ToStreet:      sign.ToStreet,
			Side:          sign.Side,
			Description:   sign.Description,
			Latitude:      sign.Latitude,
			Longitude:     sign.Longitude,
			Distance:      float64(int(distance + 0.5)),
			Rule:          rule,
			Availability:  availability,
			CurrentStatus: status,
			StatusColor:   color,
			NextChange:    nextChange,
		})
	}

	sort.Slice(response, func(i, j int) bool {
		return response[i].Distance < response[j].Distance
	})

	c.JSON(http.StatusOK, response)
}

// ParkingAtLocation handles GET /api/parking/location/{lat}/{lon}, a
// convenience form of QueryParking.
func (h *Handler) ParkingAtLocation(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Param("lat"), 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid latitude"})
		return
	}
	lon, err := strconv.ParseFloat(c.Param("lon"), 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid longitude"})
		return
	}

	radius := 200
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius < 50 || radius > 2000 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Radius must be between 50 and 2000 meters"})
			return
		}
	}

	req := parkingQueryRequest{
		Location:     locationPayload{Latitude: lat, Longitude: lon},
		RadiusMeters: radius,
	}
	h.queryParkingWith(c, req)
}

// statusFor maps a sign's verdict to the display status and color the
// clients render.
func statusFor(rule rules.Rule, availability rules.AvailabilityResult) (string, string) {
	switch {
	case !rule.Parsed:
		return "UNKNOWN", "gray"
	case !availability.Allowed:
		return string(availability.Restriction), "red"
	case availability.Restriction == rules.RestrictionMetered:
		return "METERED", "blue"
	case rule.Type == rules.RestrictionUnknown:
		return "CHECK_SIGN", "yellow"
	default:
		return "AVAILABLE", "green"
	}
}
