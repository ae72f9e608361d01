package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/api/dto"
	"github.com/spec-kit/kanban-board/internal/auth"
	"github.com/spec-kit/kanban-board/internal/board"
	"github.com/spec-kit/kanban-board/internal/domain"
	"github.com/spec-kit/kanban-board/internal/repository"
	"github.com/spec-kit/kanban-board/internal/service"
	apperrors "github.com/spec-kit/kanban-board/pkg/util/errorutil"
)

// BoardHandler serves the board, its preferences and the raw snapshot.
type BoardHandler struct {
	service *service.BoardService
	logger  *zap.Logger
}

// NewBoardHandler constructs handler.
func NewBoardHandler(boardService *service.BoardService, logger *zap.Logger) *BoardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandler{service: boardService, logger: logger}
}

// GetBoard GET /board.
func (h *BoardHandler) GetBoard(c *fiber.Ctx) error {
	view, cols := h.service.Columns(c.UserContext(), parseBoardQuery(c))
	return c.JSON(fiber.Map{"data": boardResponse(view, cols, h.service.Snapshot())})
}

// GetPreferences GET /board/preferences.
func (h *BoardHandler) GetPreferences(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": preferencesResponse(h.service.Preferences(c.UserContext()))})
}

// UpdatePreferences PUT /board/preferences. Fields left empty keep their stored value.
func (h *BoardHandler) UpdatePreferences(c *fiber.Ctx) error {
	var req dto.PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.GroupBy == "" && req.SortBy == "" {
		return apperrors.NewValidationError("group_by or sort_by required", nil)
	}

	prefs := h.service.Preferences(c.UserContext())
	if req.GroupBy != "" {
		prefs.GroupBy = domain.GroupingMode(req.GroupBy)
	}
	if req.SortBy != "" {
		prefs.SortBy = domain.SortMode(req.SortBy)
	}
	saved, err := h.service.SetPreferences(c.UserContext(), prefs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": preferencesResponse(saved)})
}

// Refresh POST /board/refresh.
func (h *BoardHandler) Refresh(c *fiber.Ctx) error {
	requestedBy := "anonymous"
	if claims, ok := auth.ClaimsFromContext(c); ok {
		requestedBy = claims.Subject
	}
	h.logger.Info("board refresh requested", zap.String("requested_by", requestedBy))

	snap, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshotInfo(snap)})
}

// ListTickets GET /tickets.
func (h *BoardHandler) ListTickets(c *fiber.Ctx) error {
	snap := h.service.Snapshot()
	items := make([]dto.TicketResponse, 0, len(snap.Tickets))
	for _, t := range snap.Tickets {
		items = append(items, dto.TicketResponse{
			ID:       t.ID,
			Title:    t.Title,
			Status:   t.Status,
			Priority: t.Priority,
			UserID:   t.UserID.String(),
			Tags:     t.Tag,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListUsers GET /users.
func (h *BoardHandler) ListUsers(c *fiber.Ctx) error {
	snap := h.service.Snapshot()
	items := make([]dto.UserResponse, 0, len(snap.Users))
	for _, u := range snap.Users {
		items = append(items, dto.UserResponse{ID: u.ID.String(), Name: u.Name, Available: u.Available})
	}
	return c.JSON(fiber.Map{"data": items})
}

// parseBoardQuery reads group_by and sort_by. Unrecognised values are passed
// through so the board applies its own fallbacks.
func parseBoardQuery(c *fiber.Ctx) service.BoardQuery {
	var q service.BoardQuery
	if raw := c.Query("group_by"); raw != "" {
		mode, _ := domain.ParseGroupingMode(raw)
		q.GroupBy = &mode
	}
	if raw := c.Query("sort_by"); raw != "" {
		mode, _ := domain.ParseSortMode(raw)
		q.SortBy = &mode
	}
	return q
}

func boardResponse(view domain.GroupedView, cols []board.Column, snap *service.Snapshot) dto.BoardResponse {
	groups := make([]dto.GroupResponse, 0, len(cols))
	for _, col := range cols {
		cards := make([]dto.CardResponse, 0, len(col.Cards))
		for _, card := range col.Cards {
			cards = append(cards, cardResponse(card))
		}
		groups = append(groups, dto.GroupResponse{Label: col.Label, Count: len(cards), Cards: cards})
	}
	return dto.BoardResponse{
		GroupBy:  view.GroupBy,
		SortBy:   view.SortBy,
		Groups:   groups,
		Snapshot: snapshotInfo(snap),
	}
}

func cardResponse(card board.Card) dto.CardResponse {
	tags := card.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.CardResponse{
		ID:            card.ID,
		Title:         card.Title,
		Status:        card.Status,
		Tags:          tags,
		UserName:      card.UserName,
		Priority:      card.Priority,
		PriorityLabel: card.PriorityLabel,
		PriorityClass: card.PriorityClass,
		PriorityIcon:  card.PriorityIcon,
	}
}

func snapshotInfo(snap *service.Snapshot) dto.SnapshotInfo {
	return dto.SnapshotInfo{
		Origin:      snap.Origin,
		LoadedAt:    snap.LoadedAt,
		TicketCount: len(snap.Tickets),
		UserCount:   len(snap.Users),
	}
}

func preferencesResponse(prefs repository.Preferences) dto.PreferencesResponse {
	return dto.PreferencesResponse{
		GroupBy:         prefs.GroupBy,
		SortBy:          prefs.SortBy,
		GroupingOptions: domain.GroupingModes(),
		SortOptions:     domain.SortModes(),
		PriorityLevels:  priorityLevels(),
	}
}

func priorityLevels() []dto.PriorityLevelResponse {
	levels := domain.PriorityLevels()
	out := make([]dto.PriorityLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.PriorityLevelResponse{Value: l.Value, Label: l.Label, Class: l.Class, Icon: l.Icon})
	}
	return out
}
