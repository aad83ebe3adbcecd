package service

import (
	"fmt"
	"strings"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
)

type AnalystService struct {
	repo      repository.AnalystRepository
	shiftDefs repository.ShiftDefinitionRepository
}

func NewAnalystService(repo repository.AnalystRepository, shiftDefs repository.ShiftDefinitionRepository) *AnalystService {
	return &AnalystService{
		repo:      repo,
		shiftDefs: shiftDefs,
	}
}

// RegisterAnalyst creates a roster entry for a new chat.
func (s *AnalystService) RegisterAnalyst(chatID int64, firstName, lastName string, shiftType models.ShiftType, region string) (*models.Analyst, error) {
	if firstName == "" {
		return nil, fmt.Errorf("first name cannot be empty")
	}
	if !shiftType.IsValid() {
		return nil, fmt.Errorf("unknown shift type %q", shiftType)
	}
	if region == "" {
		region = "AMR"
	}

	analyst := &models.Analyst{
		ChatID:    chatID,
		FirstName: firstName,
		LastName:  lastName,
		ShiftType: shiftType,
		Region:    region,
		Role:      models.RoleAnalyst,
		Active:    true,
	}

	if err := s.repo.Create(analyst); err != nil {
		return nil, fmt.Errorf("failed to register analyst: %v", err)
	}

	return analyst, nil
}

// GetAnalyst returns the roster entry for a chat.
func (s *AnalystService) GetAnalyst(chatID int64) (*models.Analyst, error) {
	analyst, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if analyst == nil {
		return nil, ErrAnalystNotFound
	}
	return analyst, nil
}

// GetByID returns the roster entry by primary key.
func (s *AnalystService) GetByID(id uint) (*models.Analyst, error) {
	analyst, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if analyst == nil {
		return nil, ErrAnalystNotFound
	}
	return analyst, nil
}

// UpdateShiftType moves an analyst to a different fixed rotation.
func (s *AnalystService) UpdateShiftType(chatID int64, shiftType models.ShiftType) (*models.Analyst, error) {
	if !shiftType.IsValid() {
		return nil, fmt.Errorf("unknown shift type %q", shiftType)
	}

	analyst, err := s.GetAnalyst(chatID)
	if err != nil {
		return nil, err
	}

	analyst.ShiftType = shiftType
	if err := s.repo.Update(analyst); err != nil {
		return nil, err
	}

	return analyst, nil
}

// PromoteToLead grants approval rights. Only an existing lead can promote.
func (s *AnalystService) PromoteToLead(leadChatID, targetChatID int64) error {
	lead, err := s.repo.GetByChatID(leadChatID)
	if err != nil {
		return err
	}
	if lead == nil || !lead.IsLead() {
		return fmt.Errorf("access denied: only leads can promote")
	}

	target, err := s.repo.GetByChatID(targetChatID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrAnalystNotFound
	}

	return s.repo.SetRole(targetChatID, models.RoleLead)
}

// SetActive toggles roster membership without losing history.
func (s *AnalystService) SetActive(chatID int64, active bool) error {
	analyst, err := s.GetAnalyst(chatID)
	if err != nil {
		return err
	}
	return s.repo.SetActive(analyst.ID, active)
}

// IsLead reports whether a chat belongs to a lead.
func (s *AnalystService) IsLead(chatID int64) (bool, error) {
	analyst, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return false, err
	}
	return analyst != nil && analyst.IsLead(), nil
}

// GetRoster returns every analyst, oldest account first.
func (s *AnalystService) GetRoster() ([]*models.Analyst, error) {
	return s.repo.GetAll()
}

// InitializeLead promotes (or creates) the lead configured at startup.
func (s *AnalystService) InitializeLead(leadChatID int64) error {
	if leadChatID == 0 {
		return nil
	}

	existing, err := s.repo.GetByChatID(leadChatID)
	if err != nil {
		return err
	}

	if existing != nil {
		return s.repo.SetRole(leadChatID, models.RoleLead)
	}

	lead := &models.Analyst{
		ChatID:    leadChatID,
		FirstName: "Lead",
		ShiftType: models.ShiftTypeMorning,
		Region:    "AMR",
		Role:      models.RoleLead,
		Active:    true,
	}

	return s.repo.Create(lead)
}

// FormatAnalystInfo renders one roster entry for chat display.
func (s *AnalystService) FormatAnalystInfo(analyst *models.Analyst) string {
	var lines []string

	shift := analyst.ShiftType.DisplayName()
	if def, err := s.shiftDefs.GetByRegionAndType(analyst.Region, analyst.ShiftType); err == nil && def != nil {
		shift = fmt.Sprintf("%s (%02d:00-%02d:00)", shift, def.StartHour, def.EndHour)
	}

	lines = append(lines, "👤 Analyst profile:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("🆔 Chat ID: %d", analyst.ChatID))
	lines = append(lines, fmt.Sprintf("👨‍💼 Name: %s", analyst.FullName()))
	lines = append(lines, fmt.Sprintf("🕐 Shift: %s", shift))
	lines = append(lines, fmt.Sprintf("🌎 Region: %s", analyst.Region))

	roleEmoji := "👤"
	if analyst.IsLead() {
		roleEmoji = "👑"
	}
	lines = append(lines, fmt.Sprintf("%s Role: %s", roleEmoji, analyst.Role))

	if !analyst.Active {
		lines = append(lines, "🚫 Inactive")
	}

	return strings.Join(lines, "\n")
}

// FormatRoster renders the whole roster.
func (s *AnalystService) FormatRoster() (string, error) {
	analysts, err := s.GetRoster()
	if err != nil {
		return "", err
	}

	if len(analysts) == 0 {
		return "📭 The roster is empty.", nil
	}

	var lines []string
	lines = append(lines, "📋 Roster:")
	lines = append(lines, "")

	for i, analyst := range analysts {
		roleEmoji := "👤"
		if analyst.IsLead() {
			roleEmoji = "👑"
		}

		status := ""
		if !analyst.Active {
			status = " (inactive)"
		}

		lines = append(lines, fmt.Sprintf("%d. %s %s — %s%s",
			i+1, roleEmoji, analyst.FullName(), analyst.ShiftType.DisplayName(), status))
	}

	total, active, _ := s.repo.GetStats()
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("📊 Total: %d, active: %d", total, active))

	return strings.Join(lines, "\n"), nil
}

// FormatShiftDefinitions renders the region's shift hours.
func (s *AnalystService) FormatShiftDefinitions(region string) (string, error) {
	defs, err := s.shiftDefs.ListByRegion(region)
	if err != nil {
		return "", err
	}

	if len(defs) == 0 {
		return fmt.Sprintf("📭 No shift definitions for region %s.", region), nil
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("🕐 Shifts in %s:", region))
	lines = append(lines, "")
	for _, def := range defs {
		lines = append(lines, fmt.Sprintf("• %s — %02d:00-%02d:00 (%s)",
			def.ShiftType.DisplayName(), def.StartHour, def.EndHour, def.Label))
	}

	return strings.Join(lines, "\n"), nil
}
