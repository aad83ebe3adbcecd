package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showShiftDefinitions renders the configured shift hours.
func (h *Handler) showShiftDefinitions(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text, err := h.analystService.FormatShiftDefinitions(h.config.Region)
	if err != nil {
		logrus.WithError(err).Error("Failed to load shift definitions")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load shift definitions: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// showProfile renders the sender's roster entry.
func (h *Handler) showProfile(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	analyst, err := h.analystService.GetAnalyst(chatID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ You are not on the roster.\nAsk a lead to add you with /addanalyst.")
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.analystService.FormatAnalystInfo(analyst))
	h.client.Bot.Send(msg)
}

// setShift moves the sender to a different fixed rotation.
func (h *Handler) setShift(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: /setshift shift\nShifts: AM, PM, WEEKEND, DAY")
		h.client.Bot.Send(msg)
		return
	}

	shiftType, ok := models.ParseShiftType(strings.TrimSpace(args))
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "❌ Unknown shift \""+args+"\". Use AM, PM, WEEKEND or DAY.")
		h.client.Bot.Send(msg)
		return
	}

	analyst, err := h.analystService.UpdateShiftType(chatID, shiftType)
	if err != nil {
		logrus.WithError(err).Error("Failed to update shift type")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to change the shift: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ You are now on the %s shift. Existing assignments stay as scheduled.",
		analyst.ShiftType.DisplayName()))
	h.client.Bot.Send(msg)
}

// showBalance renders the sender's comp-off balance and fairness ledger.
func (h *Handler) showBalance(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	analyst, err := h.analystService.GetAnalyst(chatID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ You are not on the roster.\nAsk a lead to add you with /addanalyst.")
		h.client.Bot.Send(msg)
		return
	}

	balance, err := h.compOff.Balance(analyst.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load comp-off balance")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load your balance: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	entries, err := h.ledger.GetStatement(analyst.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load ledger statement")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load your ledger: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	netDebt, err := h.ledger.GetNetDebt(analyst.ID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load your ledger: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	text := fmt.Sprintf("💰 Comp-off balance: %.1f day(s)\n\n%s",
		balance, h.ledger.FormatStatement(analyst, entries, netDebt))

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// showRoster renders every analyst (leads only).
func (h *Handler) showRoster(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	roster, err := h.analystService.FormatRoster()
	if err != nil {
		logrus.WithError(err).Error("Failed to format roster")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load the roster: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, roster)
	h.client.Bot.Send(msg)
}

// addAnalyst registers a new analyst by chat id (leads only).
func (h *Handler) addAnalyst(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	if args == "" {
		msg := tgbotapi.NewMessage(chatID,
			`👥 *Adding an analyst*

Format:
/addanalyst chat_id shift first_name [last_name]

Shifts: AM, PM, WEEKEND, DAY

Example:
/addanalyst 123456789 AM Dana Reyes`)
		msg.ParseMode = "Markdown"
		h.client.Bot.Send(msg)
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 3 {
		msg := tgbotapi.NewMessage(chatID, "❌ Wrong format. Use: /addanalyst chat_id shift first_name [last_name]")
		h.client.Bot.Send(msg)
		return
	}

	targetChatID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Invalid chat id: "+parts[0])
		h.client.Bot.Send(msg)
		return
	}

	shiftType, ok := models.ParseShiftType(parts[1])
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "❌ Unknown shift \""+parts[1]+"\". Use AM, PM, WEEKEND or DAY.")
		h.client.Bot.Send(msg)
		return
	}

	lastName := ""
	if len(parts) > 3 {
		lastName = strings.Join(parts[3:], " ")
	}

	analyst, err := h.analystService.RegisterAnalyst(targetChatID, parts[2], lastName, shiftType, h.config.Region)
	if err != nil {
		logrus.WithError(err).Error("Failed to register analyst")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to add the analyst: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	response := fmt.Sprintf("✅ %s added to the roster on the %s shift.",
		analyst.FullName(), analyst.ShiftType.DisplayName())

	msg := tgbotapi.NewMessage(chatID, response)
	h.client.Bot.Send(msg)
}

// promoteAnalyst grants lead rights. The service checks the sender is a lead.
func (h *Handler) promoteAnalyst(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: /promote chat_id")
		h.client.Bot.Send(msg)
		return
	}

	targetChatID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Invalid chat id: "+args)
		h.client.Bot.Send(msg)
		return
	}

	if err := h.analystService.PromoteToLead(chatID, targetChatID); err != nil {
		logrus.WithError(err).Error("Failed to promote analyst")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to promote: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("👑 Chat %d now has lead rights.", targetChatID))
	h.client.Bot.Send(msg)
}

// setAnalystActive toggles rotation membership (leads only).
func (h *Handler) setAnalystActive(message *tgbotapi.Message, args string, active bool) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	command := "/deactivate"
	if active {
		command = "/reactivate"
	}

	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: "+command+" chat_id")
		h.client.Bot.Send(msg)
		return
	}

	targetChatID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Invalid chat id: "+args)
		h.client.Bot.Send(msg)
		return
	}

	if err := h.analystService.SetActive(targetChatID, active); err != nil {
		logrus.WithError(err).Error("Failed to update analyst status")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to update the analyst: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	verb := "removed from"
	if active {
		verb = "returned to"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Chat %d %s the rotation.", targetChatID, verb))
	h.client.Bot.Send(msg)
}
