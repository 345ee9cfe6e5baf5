package service

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/HuongLanTo/split-money/internal/middleware"
	"github.com/HuongLanTo/split-money/internal/models"
	"github.com/HuongLanTo/split-money/internal/storage"
)

// GroupService handles group and membership endpoints.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

type addMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req createGroupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	group := &models.Group{Name: req.Name}
	if err := s.store.CreateGroup(c.Context(), group, userID); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.GroupsCreated.Inc()
	slog.Info("Group created", "group_id", group.ID, "creator_id", userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Group created successfully.",
		"group":   group,
	})
}

// ListGroups retrieves the caller's groups.
func (s *GroupService) ListGroups(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	groups, err := s.store.ListGroupsByUser(c.Context(), userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if groups == nil {
		groups = []models.Group{}
	}

	return c.Status(fiber.StatusOK).JSON(groups)
}

// GetGroup retrieves one group by ID.
func (s *GroupService) GetGroup(c *fiber.Ctx) error {
	groupID := c.Params("groupId")

	group, err := s.store.GetGroup(c.Context(), groupID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", groupID, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Group not found."})
	}

	return c.Status(fiber.StatusOK).JSON(group)
}

// AddMember adds a user to a group.
func (s *GroupService) AddMember(c *fiber.Ctx) error {
	groupID := c.Params("groupId")

	var req addMemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := s.store.GetGroup(c.Context(), groupID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Group not found."})
	}

	isMember, err := s.store.IsGroupMember(c.Context(), groupID, req.UserID)
	if err != nil {
		slog.Error("AddMember membership check failed", "group_id", groupID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if isMember {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The user already is in the group."})
	}

	member, err := s.store.AddGroupMember(c.Context(), groupID, req.UserID)
	if err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "user_id", req.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Info("Member added", "group_id", groupID, "user_id", req.UserID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Member added successfully.",
		"added":   member,
	})
}

// RemoveMember removes a user from a group.
func (s *GroupService) RemoveMember(c *fiber.Ctx) error {
	groupID := c.Params("groupId")
	userID := c.Params("userId")

	isMember, err := s.store.IsGroupMember(c.Context(), groupID, userID)
	if err != nil {
		slog.Error("RemoveMember membership check failed", "group_id", groupID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !isMember {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The user isn't in the group."})
	}

	if err := s.store.RemoveGroupMember(c.Context(), groupID, userID); err != nil {
		slog.Error("RemoveMember failed", "group_id", groupID, "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Info("Member removed", "group_id", groupID, "user_id", userID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Member removed successfully."})
}
