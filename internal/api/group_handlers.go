package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmynk/esusu/internal/engine"
	"github.com/mmynk/esusu/internal/models"
)

// GroupHandler exposes the rotating savings group operations.
type GroupHandler struct {
	engine *engine.Engine
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(e *engine.Engine) *GroupHandler {
	return &GroupHandler{engine: e}
}

type createGroupRequest struct {
	Name        string          `json:"name"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	TotalCycles int             `json:"total_cycles"`
	Slot        int             `json:"slot"`
}

type joinGroupRequest struct {
	Slot int `json:"slot"`
}

type contributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type memberDTO struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Slot     int    `json:"slot"`
	Status   string `json:"status"`
	JoinedAt int64  `json:"joined_at"`
}

type payoutDTO struct {
	MemberID string          `json:"member_id"`
	Slot     int             `json:"slot"`
	CycleDue int             `json:"cycle_due"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     bool            `json:"paid"`
	PaidAt   int64           `json:"paid_at,omitempty"`
}

type contributionDTO struct {
	ID         string          `json:"id"`
	MemberID   string          `json:"member_id"`
	Cycle      int             `json:"cycle"`
	Amount     decimal.Decimal `json:"amount"`
	RecordedAt int64           `json:"recorded_at"`
}

type fundingDTO struct {
	Cycle       int             `json:"cycle"`
	Total       decimal.Decimal `json:"total"`
	Required    decimal.Decimal `json:"required"`
	FullyFunded bool            `json:"fully_funded"`
}

// groupDTO is the full group response, including the derived projections:
// the invite reference and the members still unpaid for the current cycle.
type groupDTO struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	AdminID         string          `json:"admin_id"`
	FixedAmount     decimal.Decimal `json:"fixed_amount"`
	TotalCycles     int             `json:"total_cycles"`
	CurrentCycle    int             `json:"current_cycle"`
	Status          string          `json:"status"`
	InviteReference string          `json:"invite_reference"`
	CreatedAt       int64           `json:"created_at"`
	Members         []memberDTO     `json:"members"`
	Payouts         []payoutDTO     `json:"payouts"`
	Funding         fundingDTO      `json:"funding"`
	UnpaidMembers   []memberDTO     `json:"unpaid_members"`
}

func toMemberDTOs(members []models.Member) []memberDTO {
	dtos := make([]memberDTO, len(members))
	for i, m := range members {
		dtos[i] = memberDTO{
			ID:       m.ID,
			UserID:   m.UserID,
			Slot:     m.Slot,
			Status:   string(m.Status),
			JoinedAt: m.JoinedAt,
		}
	}
	return dtos
}

func toGroupDTO(g *models.Group) groupDTO {
	payouts := make([]payoutDTO, len(g.Payouts))
	for i, p := range g.Payouts {
		payouts[i] = payoutDTO{
			MemberID: p.MemberID,
			Slot:     p.Slot,
			CycleDue: p.CycleDue,
			Amount:   p.Amount,
			Paid:     p.Paid,
			PaidAt:   p.PaidAt,
		}
	}
	return groupDTO{
		ID:              g.ID,
		Name:            g.Name,
		AdminID:         g.AdminID,
		FixedAmount:     g.FixedAmount,
		TotalCycles:     g.TotalCycles,
		CurrentCycle:    g.CurrentCycle,
		Status:          string(g.Status),
		InviteReference: g.InviteReference(),
		CreatedAt:       g.CreatedAt,
		Members:         toMemberDTOs(g.Members),
		Payouts:         payouts,
		Funding: fundingDTO{
			Cycle:       g.CurrentCycle,
			Total:       g.FundingTotal(g.CurrentCycle),
			Required:    g.RequiredFunding(),
			FullyFunded: g.FullyFunded(g.CurrentCycle),
		},
		UnpaidMembers: toMemberDTOs(g.UnpaidMembers(g.CurrentCycle)),
	}
}

// Create creates a group with the caller as admin.
func (h *GroupHandler) Create(c *gin.Context) {
	var body createGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	group, err := h.engine.CreateGroup(c.Request.Context(), getUserID(c), body.Name,
		body.FixedAmount, body.TotalCycles, body.Slot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": toGroupDTO(group)})
}

// List returns every group the caller belongs to.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.engine.ListGroupsForUser(c.Request.Context(), getUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]groupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = toGroupDTO(g)
	}
	c.JSON(http.StatusOK, gin.H{"groups": dtos})
}

// Get returns one group; the caller must be its admin or a member.
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.engine.GetGroup(c.Request.Context(), c.Param("id"), getUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": toGroupDTO(group)})
}

// Join admits the caller at the requested slot.
func (h *GroupHandler) Join(c *gin.Context) {
	var body joinGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	group, err := h.engine.JoinGroup(c.Request.Context(), c.Param("id"), getUserID(c), body.Slot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": toGroupDTO(group)})
}

// Leave marks the caller's membership as left. The slot is never reused.
func (h *GroupHandler) Leave(c *gin.Context) {
	group, err := h.engine.LeaveGroup(c.Request.Context(), c.Param("id"), getUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": toGroupDTO(group)})
}

// Contribute records the caller's contribution for the current cycle.
func (h *GroupHandler) Contribute(c *gin.Context) {
	var body contributionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	contribution, err := h.engine.RecordContribution(c.Request.Context(), c.Param("id"), getUserID(c), body.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contribution": contributionDTO{
		ID:         contribution.ID,
		MemberID:   contribution.MemberID,
		Cycle:      contribution.Cycle,
		Amount:     contribution.Amount,
		RecordedAt: contribution.RecordedAt,
	}})
}

// MarkPaid marks the current cycle's payout paid. Admin only.
func (h *GroupHandler) MarkPaid(c *gin.Context) {
	group, err := h.engine.MarkPayoutPaid(c.Request.Context(), c.Param("id"), getUserID(c), c.Param("memberId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": toGroupDTO(group)})
}
