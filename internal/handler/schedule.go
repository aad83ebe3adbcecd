package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/service"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showSchedule renders the stored assignments for a date range.
func (h *Handler) showSchedule(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	start, end, ok := h.parseRange(chatID, args, "/schedule")
	if !ok {
		return
	}

	assignments, err := h.generator.GetSchedule(start, end)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load the schedule: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	if len(assignments) == 0 {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("📭 No assignments between %s and %s.",
			dateutil.DayKey(start), dateutil.DayKey(end)))
		h.client.Bot.Send(msg)
		return
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("📅 Schedule %s to %s:", dateutil.DayKey(start), dateutil.DayKey(end)))
	lines = append(lines, "")

	currentDay := ""
	for _, assignment := range assignments {
		dayKey := dateutil.DayKey(assignment.Day)
		if dayKey != currentDay {
			if currentDay != "" {
				lines = append(lines, "")
			}
			lines = append(lines, fmt.Sprintf("*%s %s*", assignment.Day.Weekday().String()[:3], dayKey))
			currentDay = dayKey
		}

		role := ""
		if assignment.IsScreener {
			role = " 🛡"
		}
		lines = append(lines, fmt.Sprintf("  %s: %s%s",
			assignment.ShiftType.DisplayName(), assignment.Analyst.FullName(), role))
	}

	msg := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n"))
	msg.ParseMode = "Markdown"
	h.client.Bot.Send(msg)
}

// showConflicts runs the detector over a date range.
func (h *Handler) showConflicts(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	start, end, ok := h.parseRange(chatID, args, "/conflicts")
	if !ok {
		return
	}

	report, err := h.detector.DetectRange(start, end)
	if err != nil {
		logrus.WithError(err).Error("Conflict detection failed")
		msg := tgbotapi.NewMessage(chatID, "❌ Conflict detection failed: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.detector.FormatReport(report))
	h.client.Bot.Send(msg)
}

// generateSchedule fills the open slots in a date range (leads only).
func (h *Handler) generateSchedule(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	start, end, ok := h.parseRange(chatID, args, "/generate")
	if !ok {
		return
	}

	result, err := h.generator.GenerateSchedule(service.GenerationRequest{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		logrus.WithError(err).Error("Schedule generation failed")
		msg := tgbotapi.NewMessage(chatID, "❌ Schedule generation failed: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	roster, err := h.analystService.GetRoster()
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load the roster: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	analystsByID := make(map[uint]*models.Analyst, len(roster))
	for _, analyst := range roster {
		analystsByID[analyst.ID] = analyst
	}

	msg := tgbotapi.NewMessage(chatID, h.generator.FormatGenerationResult(result, analystsByID))
	msg.ParseMode = "Markdown"
	h.client.Bot.Send(msg)
}

// parseRange parses "<start> <end>" command arguments, replying with usage
// help when they do not parse. A false return means the caller should stop.
func (h *Handler) parseRange(chatID int64, args, command string) (start, end time.Time, ok bool) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Wrong format. Use: %s start_date end_date\nExample: %s 2026-03-02 2026-03-08", command, command))
		h.client.Bot.Send(msg)
		return start, end, false
	}

	start, err := parseDate(parts[0])
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to parse the start date: "+err.Error())
		h.client.Bot.Send(msg)
		return start, end, false
	}

	end, err = parseDate(parts[1])
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to parse the end date: "+err.Error())
		h.client.Bot.Send(msg)
		return start, end, false
	}

	return start, end, true
}
